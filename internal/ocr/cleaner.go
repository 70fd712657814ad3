package ocr

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

const (
	minLineLength     = 3
	headerHeightRatio = 1.3
	maxTextLength     = 15000
)

var (
	pageMarkerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^page\s*\d+(\s*(of|/)\s*\d+)?$`), // "Page 1", "Page 1 of 3"
		regexp.MustCompile(`^\d+\s*/\s*\d+$`),                    // "1/5"
		regexp.MustCompile(`^\d+$`),                              // standalone numbers
		regexp.MustCompile(`(?i)^-+\s*page break\s*-+$`),
	}
	shortPricePattern = regexp.MustCompile(`^[€$£]?\d*[.,]?\d+[€$£]?$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// OCR garbage that never belongs on a menu.
var artifacts = []string{"�", "\u000c", "©", "™", "®", "|", "¦"}

// Cleaner drops OCR noise from recognized lines.
type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanLines removes page markers, garbage and empty lines, collapses
// whitespace and marks lines noticeably taller than the median as headers.
// Order is preserved.
func (c *Cleaner) CleanLines(lines []extraction.OCRLine) []extraction.OCRLine {
	out := make([]extraction.OCRLine, 0, len(lines))
	for _, line := range lines {
		text := c.cleanLine(line.Text)
		if text == "" || c.isNoise(text) {
			continue
		}
		line.Text = text
		out = append(out, line)
	}

	median := medianHeight(out)
	if median <= 0 {
		return out
	}
	for i := range out {
		h := out[i].BoundingBox.Height
		if h > median*headerHeightRatio {
			header := true
			size := h
			out[i].IsHeader = &header
			out[i].FontSize = &size
		}
	}
	return out
}

// CleanText applies the same line rules to a plain text dump and caps its
// length at a paragraph boundary when possible.
func (c *Cleaner) CleanText(raw string) string {
	if raw == "" {
		return raw
	}

	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		text := c.cleanLine(line)
		if text == "" || c.isNoise(text) {
			continue
		}
		kept = append(kept, text)
	}
	text := strings.ToValidUTF8(strings.Join(kept, "\n"), "")

	if len(text) <= maxTextLength {
		return text
	}
	cut := maxTextLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	truncated := text[:cut]
	if idx := strings.LastIndex(truncated, "\n"); idx > maxTextLength/2 {
		truncated = truncated[:idx]
	}
	return truncated
}

func (c *Cleaner) cleanLine(text string) string {
	for _, a := range artifacts {
		text = strings.ReplaceAll(text, a, "")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func (c *Cleaner) isNoise(text string) bool {
	for _, p := range pageMarkerPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	// Very short lines are noise unless they carry a price.
	if utf8.RuneCountInString(text) < minLineLength {
		return !shortPricePattern.MatchString(text)
	}
	return false
}

func medianHeight(lines []extraction.OCRLine) float64 {
	heights := make([]float64, 0, len(lines))
	for _, l := range lines {
		if l.BoundingBox.Height > 0 {
			heights = append(heights, l.BoundingBox.Height)
		}
	}
	if len(heights) == 0 {
		return 0
	}
	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 0 {
		return (heights[mid-1] + heights[mid]) / 2
	}
	return heights[mid]
}
