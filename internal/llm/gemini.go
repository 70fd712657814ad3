package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

var (
	ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")
	ErrEmptyResponse = errors.New("empty gemini response")
)

const (
	defaultModel = "gemini-1.5-flash"
	maxAttempts  = 3
	retryBackoff = 300 * time.Millisecond
)

type GeminiClient struct {
	apiKey string
	model  string
	logger *zap.Logger
}

func NewGeminiClient(apiKey, model string, logger *zap.Logger) *GeminiClient {
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		logger: logger,
	}
}

func (g *GeminiClient) Model() string { return g.model }

// Analyze runs the quick vision pass over a menu image.
func (g *GeminiClient) Analyze(ctx context.Context, image []byte, mimeType string) (extraction.QuickAnalysisResult, error) {
	return g.generate(ctx, "analyze", BuildQuickAnalysisPrompt(), 0.1, image, mimeType)
}

// Enhance re-reads the listed items with a stricter prompt.
func (g *GeminiClient) Enhance(ctx context.Context, image []byte, mimeType string, itemNames []string) (extraction.QuickAnalysisResult, error) {
	if len(itemNames) == 0 {
		return extraction.QuickAnalysisResult{}, nil
	}
	return g.generate(ctx, "enhance", BuildEnhancementPrompt(itemNames), 0, image, mimeType)
}

func (g *GeminiClient) generate(ctx context.Context, pass, instruction string, temperature float32, image []byte, mimeType string) (extraction.QuickAnalysisResult, error) {
	if g.apiKey == "" {
		return extraction.QuickAnalysisResult{}, ErrMissingAPIKey
	}
	if len(image) == 0 {
		return extraction.QuickAnalysisResult{}, errors.New("empty image")
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return extraction.QuickAnalysisResult{}, fmt.Errorf("gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(instruction)},
	}

	parts := []genai.Part{
		genai.Text("Return the menu as JSON."),
		&genai.Blob{MIMEType: pickMIME(mimeType, image), Data: image},
	}

	var resp *genai.GenerateContentResponse
	started := time.Now()
	err = retry(ctx, maxAttempts, retryBackoff, func(attempt int) error {
		started = time.Now()
		r, err := m.GenerateContent(ctx, parts...)
		if err != nil {
			g.logger.Warn("gemini request failed",
				zap.String("pass", pass),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return extraction.QuickAnalysisResult{}, fmt.Errorf("gemini %s: %w", pass, err)
	}

	result, err := ParseAnalysis(firstText(resp))
	if err != nil {
		return extraction.QuickAnalysisResult{}, fmt.Errorf("gemini %s: %w", pass, err)
	}

	g.logger.Info("gemini pass complete",
		zap.String("pass", pass),
		zap.String("model", g.model),
		zap.Int("sections", len(result.Sections)),
		zap.Duration("took", time.Since(started)),
	)
	return result, nil
}

// retry calls fn up to attempts times with a linear backoff between
// failures. There is no wait after the last attempt.
func retry(ctx context.Context, attempts int, backoff time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = fn(attempt); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
	return lastErr
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

// pickMIME trusts the sniffed type for formats the sniffer knows and the
// declared one otherwise (HEIC is not sniffable).
func pickMIME(declared string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if declared != "" {
		return declared
	}
	return "image/jpeg"
}
