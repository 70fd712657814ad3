package extraction

import "math"

const (
	nameWeight        = 0.4
	priceWeight       = 0.3
	descriptionWeight = 0.2
	baseWeight        = 0.1

	defaultNameConf       = 50
	aiPriceConf           = 60
	aiDescriptionConf     = 50
	defaultBaseConf       = 70
	sectionMatchBonus     = 10
	maxMatchedSectionConf = 95
	maxConfidence         = 100
)

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func clampConfidence(v float64) float64 {
	return math.Max(0, math.Min(maxConfidence, v))
}

// CalculateItemConfidence weighs OCR corroboration of name, price and
// description against the model's own confidence. Any of the matches may
// be nil.
func CalculateItemConfidence(ai AIItem, text *TextMatch, price *PriceMatch, desc *DescriptionMatch) float64 {
	name := orDefault(ai.Confidence, defaultNameConf)
	if text != nil {
		name = text.Confidence
	}
	score := name * nameWeight

	switch {
	case price != nil:
		score += price.Confidence * priceWeight
	case ai.Price != nil:
		score += aiPriceConf * priceWeight
	}

	switch {
	case desc != nil:
		score += desc.Confidence * descriptionWeight
	case ai.Description != "":
		score += aiDescriptionConf * descriptionWeight
	}

	score += orDefault(ai.Confidence, defaultBaseConf) * baseWeight

	return clampConfidence(math.Round(score))
}

// CalculateSectionConfidence prefers OCR corroboration of the section name.
func CalculateSectionConfidence(ai AISection, match *TextMatch) float64 {
	if match != nil {
		return math.Min(match.Confidence+sectionMatchBonus, maxMatchedSectionConf)
	}
	return clampConfidence(ai.Confidence)
}

// OverallConfidence is the rounded mean of every section and item
// confidence, unweighted.
func OverallConfidence(sections []MenuSection) float64 {
	var sum float64
	var n int
	for _, s := range sections {
		sum += s.Confidence
		n++
		for _, item := range s.Items {
			sum += item.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum / float64(n))
}
