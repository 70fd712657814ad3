package menu

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

// InMemoryRepository backs tests and local runs without Postgres.
// Extractions are stored as JSON so reads never alias the saved document.
type InMemoryRepository struct {
	mu           sync.Mutex
	uploads      map[string]*MenuUpload
	byRestaurant map[string]string
	extractions  map[string][]byte
	order        []string
	now          func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		uploads:      make(map[string]*MenuUpload),
		byRestaurant: make(map[string]string),
		extractions:  make(map[string][]byte),
		now:          time.Now,
	}
}

func (r *InMemoryRepository) UpsertUpload(ctx context.Context, u NewUpload) (*MenuUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if id, ok := r.byRestaurant[u.RestaurantID]; ok {
		existing := r.uploads[id]
		if locked(existing.Status) {
			return nil, ErrMenuLocked
		}
		existing.ObjectKey = u.ObjectKey
		existing.ImageURL = u.ImageURL
		existing.Filename = u.Filename
		existing.ContentType = u.ContentType
		existing.Status = StatusUploaded
		existing.FailureReason = nil
		existing.Confidence = nil
		existing.UpdatedAt = now
		delete(r.extractions, id)
		out := *existing
		return &out, nil
	}

	id := u.ID
	if id == "" {
		id = uuid.New().String()
	}
	created := &MenuUpload{
		ID:           id,
		RestaurantID: u.RestaurantID,
		ObjectKey:    u.ObjectKey,
		ImageURL:     u.ImageURL,
		Filename:     u.Filename,
		ContentType:  u.ContentType,
		Status:       StatusUploaded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.uploads[id] = created
	r.byRestaurant[u.RestaurantID] = id
	r.order = append(r.order, id)
	out := *created
	return &out, nil
}

func (r *InMemoryRepository) GetUpload(ctx context.Context, uploadID string) (*MenuUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *InMemoryRepository) GetMenuStatus(ctx context.Context, restaurantID string) (*MenuStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byRestaurant[restaurantID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.uploads[id].StatusView(), nil
}

func (r *InMemoryRepository) RetryFailed(ctx context.Context, uploadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return ErrNotFound
	}
	if u.Status != StatusFailed {
		return ErrNotRetryable
	}
	u.Status = StatusUploaded
	u.FailureReason = nil
	u.UpdatedAt = r.now()
	return nil
}

func (r *InMemoryRepository) ClaimNext(ctx context.Context) (*MenuUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		u := r.uploads[id]
		if u.Status == StatusUploaded {
			r.claim(u)
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *InMemoryRepository) Claim(ctx context.Context, uploadID string) (*MenuUpload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Status != StatusUploaded && u.Status != StatusFailed {
		return nil, ErrNotClaimable
	}
	r.claim(u)
	out := *u
	return &out, nil
}

func (r *InMemoryRepository) claim(u *MenuUpload) {
	u.Status = StatusExtracting
	u.Attempts++
	u.FailureReason = nil
	u.UpdatedAt = r.now()
}

func (r *InMemoryRepository) SaveExtraction(ctx context.Context, uploadID string, doc *extraction.ExtractedMenu) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return ErrNotFound
	}
	if u.Status != StatusExtracting {
		return ErrNotClaimable
	}
	conf := doc.Confidence
	u.Status = StatusExtracted
	u.Confidence = &conf
	u.FailureReason = nil
	u.UpdatedAt = r.now()
	r.extractions[uploadID] = data
	return nil
}

func (r *InMemoryRepository) MarkFailed(ctx context.Context, uploadID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.uploads[uploadID]
	if !ok {
		return ErrNotFound
	}
	u.Status = StatusFailed
	u.FailureReason = &reason
	u.UpdatedAt = r.now()
	return nil
}

func (r *InMemoryRepository) GetExtraction(ctx context.Context, uploadID string) (*extraction.ExtractedMenu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.uploads[uploadID]; !ok {
		return nil, ErrNotFound
	}
	data, ok := r.extractions[uploadID]
	if !ok {
		return nil, ErrNoExtraction
	}
	var doc extraction.ExtractedMenu
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
