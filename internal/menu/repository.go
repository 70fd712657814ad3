package menu

import (
	"context"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

// Repository defines all database operations for menus
type Repository interface {

	// -------------------------------
	// Upload (ONE MENU PER RESTAURANT)
	// -------------------------------

	// Create OR replace the restaurant's upload. Returns ErrMenuLocked while
	// an extraction is running or done.
	UpsertUpload(ctx context.Context, u NewUpload) (*MenuUpload, error)

	GetUpload(ctx context.Context, uploadID string) (*MenuUpload, error)

	// Status of the restaurant's single upload
	GetMenuStatus(ctx context.Context, restaurantID string) (*MenuStatus, error)

	// Move a FAILED upload back to MENU_UPLOADED
	RetryFailed(ctx context.Context, uploadID string) error

	// -------------------------------
	// Extraction (WORKER)
	// -------------------------------

	// Claim the oldest MENU_UPLOADED row. Returns nil when the queue is empty.
	ClaimNext(ctx context.Context) (*MenuUpload, error)

	// Claim a specific upload that is MENU_UPLOADED or FAILED.
	Claim(ctx context.Context, uploadID string) (*MenuUpload, error)

	// Atomically store the document and its items and mark EXTRACTED
	SaveExtraction(ctx context.Context, uploadID string, doc *extraction.ExtractedMenu) error

	// Mark FAILED (no extraction written)
	MarkFailed(ctx context.Context, uploadID string, reason string) error

	GetExtraction(ctx context.Context, uploadID string) (*extraction.ExtractedMenu, error)
}
