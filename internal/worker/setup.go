package worker

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/config"
	"github.com/Remedy92/Culi-sub000/internal/events"
	"github.com/Remedy92/Culi-sub000/internal/llm"
	"github.com/Remedy92/Culi-sub000/internal/ocr"
	"github.com/Remedy92/Culi-sub000/internal/storage"
)

// Components are the external dependencies shared by the API and the
// standalone worker.
type Components struct {
	Service   *Service
	Objects   storage.ObjectStore
	Publisher events.Publisher
}

func (c *Components) Close() error {
	return c.Publisher.Close()
}

func NewObjectStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.ObjectStore, error) {
	if cfg.R2.Configured() {
		return storage.NewR2Client(ctx, cfg.R2)
	}
	if cfg.Production() {
		return nil, errors.New("R2 credentials are required in production")
	}
	logger.Warn("R2 not configured, menu images are kept in memory")
	return storage.NewMemoryStore(), nil
}

func NewPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, menu events are not published")
		return events.NopPublisher{}, nil
	}
	return events.NewSaramaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Merge:                  cfg.Merge,
		EnhanceBelowConfidence: cfg.EnhanceBelowConfidence,
		OCRTimeout:             cfg.OCRTimeout,
		AITimeout:              cfg.AITimeout,
		EnhanceTimeout:         cfg.EnhanceTimeout,
	}
}

// NewFromConfig wires tesseract, Gemini, object storage and the event
// publisher around the given store.
func NewFromConfig(ctx context.Context, cfg *config.Config, store Store, logger *zap.Logger) (*Components, error) {
	objects, err := NewObjectStore(ctx, cfg, logger.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	publisher, err := NewPublisher(cfg, logger.Named("events"))
	if err != nil {
		return nil, fmt.Errorf("event publisher: %w", err)
	}

	service := NewService(
		store,
		objects,
		ocr.NewTesseract(cfg.TesseractLanguages, logger.Named("ocr")),
		llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, logger.Named("llm")),
		publisher,
		OptionsFromConfig(cfg),
		logger.Named("worker"),
	)

	return &Components{Service: service, Objects: objects, Publisher: publisher}, nil
}
