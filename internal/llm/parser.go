package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseAnalysis decodes a model response into a QuickAnalysisResult.
// A null description becomes "", a null price stays nil and an explicit 0
// stays 0. Items without a name are dropped.
func ParseAnalysis(raw string) (extraction.QuickAnalysisResult, error) {
	text := stripCodeFences(raw)
	if text == "" {
		return extraction.QuickAnalysisResult{}, ErrEmptyResponse
	}

	var resp analysisResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return extraction.QuickAnalysisResult{}, fmt.Errorf("invalid model JSON output: %w", err)
	}

	out := extraction.QuickAnalysisResult{
		Sections: make([]extraction.AISection, 0, len(resp.Sections)),
		Language: strings.ToLower(deref(resp.Language)),
		Currency: strings.ToUpper(deref(resp.Currency)),
	}
	if mt := strings.TrimSpace(deref(resp.MenuType)); mt != "" {
		out.MenuType = &mt
	}

	for _, s := range resp.Sections {
		section := extraction.AISection{
			Name:       strings.TrimSpace(s.Name),
			Confidence: confidence(s.Confidence),
			Items:      make([]extraction.AIItem, 0, len(s.Items)),
		}
		for _, it := range s.Items {
			name := strings.TrimSpace(it.Name)
			if name == "" {
				continue
			}
			item := extraction.AIItem{
				Name:        name,
				Description: strings.TrimSpace(deref(it.Description)),
				Confidence:  confidence(it.Confidence),
			}
			if it.Price != nil && *it.Price >= 0 && !math.IsNaN(*it.Price) {
				p := *it.Price
				item.Price = &p
			}
			section.Items = append(section.Items, item)
		}
		out.Sections = append(out.Sections, section)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// confidence accepts 0-1 fractions as well as 0-100 scores.
func confidence(v *float64) float64 {
	if v == nil || math.IsNaN(*v) || *v < 0 {
		return 0
	}
	c := *v
	if c > 0 && c <= 1 {
		c = math.Round(c * 100)
	}
	return math.Min(c, 100)
}
