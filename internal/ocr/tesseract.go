package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract"
	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

// ErrUnsupportedFormat is returned for inputs tesseract cannot read directly.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ISO 639-1 codes for the tesseract language packs we ship.
var languageCodes = map[string]string{
	"eng": "en",
	"nld": "nl",
	"fra": "fr",
	"deu": "de",
	"spa": "es",
	"ita": "it",
}

// Tesseract recognizes menu images line by line.
type Tesseract struct {
	languages []string
	cleaner   *Cleaner
	logger    *zap.Logger
}

func NewTesseract(languages []string, logger *zap.Logger) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{
		languages: languages,
		cleaner:   NewCleaner(),
		logger:    logger,
	}
}

type recognition struct {
	result extraction.OCRResult
	err    error
}

// Recognize runs OCR on an image. Tesseract itself cannot be interrupted, so
// on cancellation the call returns ctx.Err() and the recognition finishes in
// the background.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (extraction.OCRResult, error) {
	if len(image) == 0 {
		return extraction.OCRResult{}, fmt.Errorf("%w: empty image", ErrUnsupportedFormat)
	}
	if IsPDF(image) {
		return extraction.OCRResult{}, fmt.Errorf("%w: PDF", ErrUnsupportedFormat)
	}

	done := make(chan recognition, 1)
	go func() {
		res, err := t.recognize(image)
		done <- recognition{result: res, err: err}
	}()

	select {
	case <-ctx.Done():
		return extraction.OCRResult{}, ctx.Err()
	case r := <-done:
		return r.result, r.err
	}
}

func (t *Tesseract) recognize(image []byte) (extraction.OCRResult, error) {
	tmpFile, err := os.CreateTemp("", "menu-*")
	if err != nil {
		return extraction.OCRResult{}, fmt.Errorf("create temp image: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(image); err != nil {
		tmpFile.Close()
		return extraction.OCRResult{}, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return extraction.OCRResult{}, fmt.Errorf("close temp image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	client.SetLanguage(t.languages...)
	client.SetImage(tmpFile.Name())

	text, err := client.Text()
	if err != nil {
		return extraction.OCRResult{}, fmt.Errorf("tesseract text: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return extraction.OCRResult{}, fmt.Errorf("tesseract lines: %w", err)
	}

	lines := make([]extraction.OCRLine, 0, len(boxes))
	for _, b := range boxes {
		lines = append(lines, extraction.OCRLine{
			Text: b.Word,
			BoundingBox: extraction.BoundingBox{
				X:      float64(b.Box.Min.X),
				Y:      float64(b.Box.Min.Y),
				Width:  float64(b.Box.Dx()),
				Height: float64(b.Box.Dy()),
			},
			Confidence: b.Confidence,
		})
	}

	result := BuildResult(text, lines, t.languages, t.cleaner)
	t.logger.Info("ocr recognized",
		zap.Int("raw_lines", len(boxes)),
		zap.Int("lines", len(result.Lines)),
		zap.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// BuildResult cleans recognized lines and derives the overall confidence as
// the mean line confidence.
func BuildResult(text string, lines []extraction.OCRLine, languages []string, cleaner *Cleaner) extraction.OCRResult {
	cleaned := cleaner.CleanLines(lines)

	var sum float64
	for _, l := range cleaned {
		sum += l.Confidence
	}
	confidence := 0.0
	if len(cleaned) > 0 {
		confidence = sum / float64(len(cleaned))
	}

	return extraction.OCRResult{
		Text:       cleaner.CleanText(text),
		Confidence: confidence,
		Lines:      cleaned,
		Language:   LanguageCode(languages),
	}
}

// LanguageCode maps the primary tesseract language to its ISO code.
func LanguageCode(languages []string) string {
	if len(languages) == 0 {
		return ""
	}
	primary := strings.SplitN(languages[0], "+", 2)[0]
	if code, ok := languageCodes[primary]; ok {
		return code
	}
	return primary
}

func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}
