package menu

import (
	"errors"
	"time"
)

// Upload lifecycle: MENU_UPLOADED -> EXTRACTING -> EXTRACTED | FAILED.
// A FAILED upload goes back to MENU_UPLOADED on retry.
const (
	StatusUploaded   = "MENU_UPLOADED"
	StatusExtracting = "EXTRACTING"
	StatusExtracted  = "EXTRACTED"
	StatusFailed     = "FAILED"
)

var (
	ErrNotFound     = errors.New("no menu uploaded")
	ErrMenuLocked   = errors.New("menu already extracted and locked")
	ErrNotRetryable = errors.New("only failed menus can be retried")
	ErrNotClaimable = errors.New("menu is not waiting for extraction")
	ErrNoExtraction = errors.New("menu has not been extracted yet")
)

// MenuUpload is one restaurant's uploaded menu image.
type MenuUpload struct {
	ID            string    `json:"id"`
	RestaurantID  string    `json:"restaurant_id"`
	ObjectKey     string    `json:"object_key"`
	ImageURL      string    `json:"image_url"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	Status        string    `json:"status"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	Confidence    *float64  `json:"confidence,omitempty"`
	Attempts      int       `json:"attempts"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewUpload carries what the service knows when a file lands in storage.
type NewUpload struct {
	ID           string
	RestaurantID string
	ObjectKey    string
	ImageURL     string
	Filename     string
	ContentType  string
}

// MenuStatus is the polling view for the frontend.
type MenuStatus struct {
	UploadID   string   `json:"upload_id"`
	Status     string   `json:"status"`
	Reason     *string  `json:"reason,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func (u *MenuUpload) StatusView() *MenuStatus {
	return &MenuStatus{
		UploadID:   u.ID,
		Status:     u.Status,
		Reason:     u.FailureReason,
		Confidence: u.Confidence,
	}
}

func locked(status string) bool {
	return status == StatusExtracted || status == StatusExtracting
}
