package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
	"github.com/Remedy92/Culi-sub000/internal/storage"
)

type Service struct {
	repo    Repository
	storage storage.ObjectStore
	logger  *zap.Logger
}

func NewService(repo Repository, store storage.ObjectStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, storage: store, logger: logger}
}

// --------------------------------------------------
// Upload Menu (ONE MENU PER RESTAURANT)
// --------------------------------------------------
func (s *Service) UploadMenu(
	ctx context.Context,
	restaurantID string,
	body io.Reader,
	filename string,
	contentType string,
) (*MenuUpload, error) {

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || restaurantID == "" {
		return nil, errors.New("invalid file")
	}

	// Refuse early so a locked menu does not leave an orphan object behind.
	if st, err := s.repo.GetMenuStatus(ctx, restaurantID); err == nil && locked(st.Status) {
		return nil, ErrMenuLocked
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id := uuid.New().String()
	key := fmt.Sprintf("menus/%s/%s%s", restaurantID, id, ext)
	contentType = ContentTypeFor(filename, contentType)

	url, err := s.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		return nil, fmt.Errorf("store menu image: %w", err)
	}

	upload, err := s.repo.UpsertUpload(ctx, NewUpload{
		ID:           id,
		RestaurantID: restaurantID,
		ObjectKey:    key,
		ImageURL:     url,
		Filename:     filename,
		ContentType:  contentType,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("menu uploaded",
		zap.String("upload_id", upload.ID),
		zap.String("restaurant_id", restaurantID),
		zap.String("object_key", key),
	)
	return upload, nil
}

func (s *Service) GetUpload(ctx context.Context, uploadID string) (*MenuUpload, error) {
	return s.repo.GetUpload(ctx, uploadID)
}

func (s *Service) GetExtraction(ctx context.Context, uploadID string) (*extraction.ExtractedMenu, error) {
	return s.repo.GetExtraction(ctx, uploadID)
}

// --------------------------------------------------
// Retry a FAILED extraction
// --------------------------------------------------
func (s *Service) RetryFailed(ctx context.Context, uploadID string) error {
	if err := s.repo.RetryFailed(ctx, uploadID); err != nil {
		return err
	}
	s.logger.Info("menu queued for retry", zap.String("upload_id", uploadID))
	return nil
}
