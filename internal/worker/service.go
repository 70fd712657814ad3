package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Remedy92/Culi-sub000/internal/events"
	"github.com/Remedy92/Culi-sub000/internal/extraction"
	"github.com/Remedy92/Culi-sub000/internal/llm"
	"github.com/Remedy92/Culi-sub000/internal/menu"
	"github.com/Remedy92/Culi-sub000/internal/storage"
)

// ErrAlreadyClaimed means another request or worker owns the upload.
var ErrAlreadyClaimed = errors.New("menu extraction already in progress or done")

const ocrFailedWarning = "Text recognition failed for this image"

// Store is the slice of the menu repository the worker needs.
type Store interface {
	GetUpload(ctx context.Context, uploadID string) (*menu.MenuUpload, error)
	ClaimNext(ctx context.Context) (*menu.MenuUpload, error)
	Claim(ctx context.Context, uploadID string) (*menu.MenuUpload, error)
	SaveExtraction(ctx context.Context, uploadID string, doc *extraction.ExtractedMenu) error
	MarkFailed(ctx context.Context, uploadID string, reason string) error
}

type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (extraction.OCRResult, error)
}

type Options struct {
	Merge                  extraction.Options
	EnhanceBelowConfidence float64
	OCRTimeout             time.Duration
	AITimeout              time.Duration
	EnhanceTimeout         time.Duration
}

func DefaultOptions() Options {
	return Options{
		Merge:                  extraction.DefaultOptions(),
		EnhanceBelowConfidence: 70,
		OCRTimeout:             45 * time.Second,
		AITimeout:              60 * time.Second,
		EnhanceTimeout:         90 * time.Second,
	}
}

type Service struct {
	store     Store
	objects   storage.ObjectStore
	ocr       Recognizer
	ai        llm.Client
	merger    *extraction.Merger
	publisher events.Publisher
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	store Store,
	objects storage.ObjectStore,
	ocr Recognizer,
	ai llm.Client,
	publisher events.Publisher,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if opts.Merge.Model == "" {
		opts.Merge.Model = ai.Model()
	}
	return &Service{
		store:     store,
		objects:   objects,
		ocr:       ocr,
		ai:        ai,
		merger:    extraction.NewMerger(opts.Merge, nil, logger.Named("merge")),
		publisher: publisher,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessOne claims the oldest pending upload and extracts it. It reports
// whether a job was found; a failed job is not an error for the caller.
func (s *Service) ProcessOne(ctx context.Context) (bool, error) {
	upload, err := s.store.ClaimNext(ctx)
	if err != nil {
		return false, fmt.Errorf("claim next: %w", err)
	}
	if upload == nil {
		return false, nil
	}
	_, _ = s.run(ctx, upload)
	return true, nil
}

// Extract runs one upload now. A second concurrent request for the same
// upload gets ErrAlreadyClaimed.
func (s *Service) Extract(ctx context.Context, uploadID string) (*extraction.ExtractedMenu, error) {
	upload, err := s.store.Claim(ctx, uploadID)
	if err != nil {
		if errors.Is(err, menu.ErrNotClaimable) {
			return nil, ErrAlreadyClaimed
		}
		return nil, err
	}
	return s.run(ctx, upload)
}

func (s *Service) run(ctx context.Context, upload *menu.MenuUpload) (*extraction.ExtractedMenu, error) {
	log := s.logger.With(
		zap.String("upload_id", upload.ID),
		zap.String("restaurant_id", upload.RestaurantID),
		zap.Int("attempt", upload.Attempts),
	)
	log.Info("extraction started")
	start := s.now()

	doc, enhanced, err := s.extract(ctx, upload, log)
	if err != nil {
		log.Warn("extraction failed", zap.Error(err))
		// The job outcome must be recorded even if the caller went away.
		if markErr := s.store.MarkFailed(context.WithoutCancel(ctx), upload.ID, err.Error()); markErr != nil {
			log.Error("failed to mark menu as failed", zap.Error(markErr))
		}
		return nil, err
	}

	if err := s.store.SaveExtraction(ctx, upload.ID, doc); err != nil {
		log.Error("failed to save extraction", zap.Error(err))
		if markErr := s.store.MarkFailed(context.WithoutCancel(ctx), upload.ID, "save: "+err.Error()); markErr != nil {
			log.Error("failed to mark menu as failed", zap.Error(markErr))
		}
		return nil, err
	}

	ev := events.NewMenuExtracted(upload.ID, upload.RestaurantID, doc, enhanced, s.now())
	if err := s.publisher.PublishMenuExtracted(ctx, ev); err != nil {
		log.Warn("menu event not published", zap.Error(err))
	}

	log.Info("extraction complete",
		zap.Float64("confidence", doc.Confidence),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("items", len(doc.Items)),
		zap.Int("enhanced_items", enhanced),
		zap.Int("warnings", len(doc.Metadata.Warnings)),
		zap.Duration("took", s.now().Sub(start)),
	)
	return doc, nil
}

func (s *Service) extract(ctx context.Context, upload *menu.MenuUpload, log *zap.Logger) (*extraction.ExtractedMenu, int, error) {
	image, err := s.objects.Download(ctx, upload.ObjectKey)
	if err != nil {
		return nil, 0, fmt.Errorf("download image: %w", err)
	}

	var (
		ocrResult extraction.OCRResult
		ocrErr    error
		aiResult  extraction.QuickAnalysisResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		octx, cancel := context.WithTimeout(gctx, s.opts.OCRTimeout)
		defer cancel()
		res, err := s.ocr.Recognize(octx, image)
		if err != nil {
			ocrErr = err
			log.Warn("ocr failed, continuing with AI only", zap.Error(err))
			return nil
		}
		ocrResult = res
		return nil
	})
	g.Go(func() error {
		actx, cancel := context.WithTimeout(gctx, s.opts.AITimeout)
		defer cancel()
		res, err := s.ai.Analyze(actx, image, upload.ContentType)
		if err != nil {
			return fmt.Errorf("ai analysis: %w", err)
		}
		aiResult = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	doc, err := s.merger.Merge(ocrResult, aiResult)
	if err != nil {
		return nil, 0, err
	}

	enhanced := 0
	if doc.Confidence < s.opts.EnhanceBelowConfidence {
		doc, enhanced = s.enhance(ctx, doc, image, upload.ContentType, log)
		doc.Metadata.Warnings = extraction.Warnings(doc, ocrResult, s.opts.Merge)
	}
	if ocrErr != nil {
		doc.Metadata.Warnings = append([]string{ocrFailedWarning}, doc.Metadata.Warnings...)
	}
	return doc, enhanced, nil
}

// enhance re-reads low-confidence items. Any failure keeps the merged
// document as it was.
func (s *Service) enhance(ctx context.Context, doc *extraction.ExtractedMenu, image []byte, mimeType string, log *zap.Logger) (*extraction.ExtractedMenu, int) {
	names := lowConfidenceNames(doc, s.opts.Merge.LowItemConfidence)
	if len(names) == 0 {
		return doc, 0
	}

	ectx, cancel := context.WithTimeout(ctx, s.opts.EnhanceTimeout)
	defer cancel()

	enh, err := s.ai.Enhance(ectx, image, mimeType, names)
	if err != nil {
		log.Warn("enhancement pass failed", zap.Error(err))
		return doc, 0
	}

	patched, n, err := extraction.ApplyEnhancement(doc, enh)
	if err != nil {
		log.Warn("enhanced menu failed validation, keeping merged menu", zap.Error(err))
		return doc, 0
	}
	if n > 0 {
		patched.Metadata.ExtractionMethod = doc.Metadata.ExtractionMethod + "+enhanced"
	}
	log.Info("enhancement applied",
		zap.Int("requested", len(names)),
		zap.Int("patched", n),
		zap.Float64("confidence_before", doc.Confidence),
		zap.Float64("confidence_after", patched.Confidence),
	)
	return patched, n
}

func lowConfidenceNames(doc *extraction.ExtractedMenu, threshold float64) []string {
	var names []string
	seen := make(map[string]bool)
	for _, item := range doc.Items {
		if item.Confidence >= threshold || seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		names = append(names, item.Name)
	}
	return names
}
