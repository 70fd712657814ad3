package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	matchThreshold       = 0.6
	containmentScore     = 0.8
	sameLinePriceConf    = 90
	nextLinePriceConf    = 85
	priceDistancePenalty = 5
	priceLookahead       = 2
	descriptionLookahead = 3
	descriptionMinLength = 6
	descriptionConf      = 85
)

// pricePattern matches "12.50", "€12,50", "12.50€". Group 1 is the whole
// part, group 2 the cents.
var pricePattern = regexp.MustCompile(`[€$£]?\s?(\d+)[.,](\d{2})\b\s?[€$£]?`)

type TextMatch struct {
	Text        string
	Score       float64
	Confidence  float64
	LineIndex   int
	BoundingBox BoundingBox
}

type PriceMatch struct {
	Value      float64
	Confidence float64
	LineIndex  int
}

type DescriptionMatch struct {
	Text       string
	Confidence float64
}

// fold lowercases and strips diacritics ("Kalfsfricassée" -> "kalfsfricassee").
func fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = text
	}
	return strings.ToLower(out)
}

// Normalize lowercases, strips punctuation and collapses whitespace.
func Normalize(text string) string {
	folded := fold(text)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// FindBestTextMatch returns the OCR line that best matches target, or nil
// when no line scores above the threshold. Ties keep the earliest line.
func FindBestTextMatch(target string, lines []OCRLine) *TextMatch {
	want := Normalize(target)
	if want == "" {
		return nil
	}

	bestScore := 0.0
	bestIdx := -1

	for i, line := range lines {
		got := Normalize(line.Text)
		if got == "" {
			continue
		}

		score := similarity(want, got)
		if strings.Contains(got, want) || strings.Contains(want, got) {
			score = math.Max(score, containmentScore)
		}

		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore <= matchThreshold {
		return nil
	}

	return &TextMatch{
		Text:        lines[bestIdx].Text,
		Score:       bestScore,
		Confidence:  math.Round(bestScore * 100),
		LineIndex:   bestIdx,
		BoundingBox: lines[bestIdx].BoundingBox,
	}
}

// findLineIndex returns the first line whose normalized text contains the
// normalized name, or -1.
func findLineIndex(name string, lines []OCRLine) int {
	want := Normalize(name)
	if want == "" {
		return -1
	}
	for i, line := range lines {
		if strings.Contains(Normalize(line.Text), want) {
			return i
		}
	}
	return -1
}

func parsePrice(whole, cents string) float64 {
	v, err := strconv.ParseFloat(whole+"."+cents, 64)
	if err != nil {
		return 0
	}
	return v
}

// pricesIn returns every price-shaped token in text, in order.
func pricesIn(text string) []float64 {
	var out []float64
	for _, m := range pricePattern.FindAllStringSubmatch(text, -1) {
		if v := parsePrice(m[1], m[2]); v > 0 {
			out = append(out, v)
		}
	}
	return out
}

func hasPrice(text string) bool {
	return len(pricesIn(text)) > 0
}

// FindPriceInOCR looks for a price on the item's own line, then on the two
// lines after it with decreasing confidence.
func FindPriceInOCR(itemName string, lines []OCRLine) *PriceMatch {
	idx := findLineIndex(itemName, lines)
	if idx < 0 {
		return nil
	}

	if prices := pricesIn(lines[idx].Text); len(prices) > 0 {
		return &PriceMatch{Value: prices[0], Confidence: sameLinePriceConf, LineIndex: idx}
	}

	for d := 1; d <= priceLookahead && idx+d < len(lines); d++ {
		if prices := pricesIn(lines[idx+d].Text); len(prices) > 0 {
			return &PriceMatch{
				Value:      prices[0],
				Confidence: float64(nextLinePriceConf - priceDistancePenalty*d),
				LineIndex:  idx + d,
			}
		}
	}

	return nil
}

// looksLikeHeader reports an all-caps line, or one the OCR engine flagged.
func looksLikeHeader(line OCRLine) bool {
	if line.IsHeader != nil && *line.IsHeader {
		return true
	}
	text := strings.TrimSpace(line.Text)
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter && strings.ToUpper(text) == text
}

// FindDescriptionInOCR collects up to three lines after the item line,
// stopping at the next priced item or section header.
// itemLineIndex may be nil, in which case the item line is searched.
func FindDescriptionInOCR(itemName string, lines []OCRLine, itemLineIndex *int) *DescriptionMatch {
	idx := -1
	if itemLineIndex != nil {
		idx = *itemLineIndex
	} else {
		idx = findLineIndex(itemName, lines)
	}
	if idx < 0 || idx >= len(lines) {
		return nil
	}

	var parts []string
	for i := idx + 1; i < len(lines) && i <= idx+descriptionLookahead; i++ {
		text := strings.TrimSpace(lines[i].Text)
		if hasPrice(text) || looksLikeHeader(lines[i]) {
			break
		}
		if utf8.RuneCountInString(text) < descriptionMinLength {
			continue
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return nil
	}
	return &DescriptionMatch{Text: strings.Join(parts, " "), Confidence: descriptionConf}
}
