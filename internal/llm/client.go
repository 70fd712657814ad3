package llm

import (
	"context"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

// Client reads menus from images with a vision model.
type Client interface {
	// Analyze is the quick pass: sections and items with a confidence each.
	Analyze(ctx context.Context, image []byte, mimeType string) (extraction.QuickAnalysisResult, error)
	// Enhance re-reads the image focusing on the given item names and returns
	// a partial result for just those items.
	Enhance(ctx context.Context, image []byte, mimeType string, itemNames []string) (extraction.QuickAnalysisResult, error)
	Model() string
}
