package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultSectionName      = "Menu"
	defaultExtractionMethod = "ocr+ai"
)

// componentSectionPattern matches generic course headers that usually belong
// to a set menu printed just above them. It runs on Normalize(name).
var componentSectionPattern = regexp.MustCompile(`^(starters?|appetizers?|appetisers?|voorgerecht(en)?|entrees?|hors doeuvres?|vorspeisen?|entrantes|primi|antipasti|mains?|main courses?|hoofdgerecht(en)?|plats? principa(l|ux)|hauptgerichte?|hauptspeisen?|platos principales|secondi|desserts?|nagerecht(en)?|postres|dolci|nachspeisen?|nachtisch)$`)

// IDGenerator returns a fresh identifier on every call.
type IDGenerator func() string

// UUIDGenerator generates random v4 UUID strings.
func UUIDGenerator() IDGenerator {
	return func() string { return uuid.NewString() }
}

// Options holds the merge thresholds.
type Options struct {
	LowOCRConfidence               float64
	LowItemConfidence              float64
	ImpliedBundleSectionConfidence float64
	ImpliedBundleItemConfidence    float64
	ExtractionMethod               string
	Model                          string
}

func DefaultOptions() Options {
	return Options{
		LowOCRConfidence:               70,
		LowItemConfidence:              60,
		ImpliedBundleSectionConfidence: 60,
		ImpliedBundleItemConfidence:    60,
		ExtractionMethod:               defaultExtractionMethod,
	}
}

// Merger fuses an OCR result and an AI analysis into one ExtractedMenu.
// A Merger holds no per-merge state and is safe for concurrent use.
type Merger struct {
	opts   Options
	newID  IDGenerator
	now    func() time.Time
	logger *zap.Logger
}

// NewMerger returns a Merger. A nil newID uses random UUIDs and a nil logger
// discards output.
func NewMerger(opts Options, newID IDGenerator, logger *zap.Logger) *Merger {
	if newID == nil {
		newID = UUIDGenerator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ExtractionMethod == "" {
		opts.ExtractionMethod = defaultExtractionMethod
	}
	return &Merger{
		opts:   opts,
		newID:  newID,
		now:    time.Now,
		logger: logger,
	}
}

// MergeOCRWithAI merges with default options and random identifiers.
func MergeOCRWithAI(ocr OCRResult, ai QuickAnalysisResult) (*ExtractedMenu, error) {
	return NewMerger(DefaultOptions(), nil, nil).Merge(ocr, ai)
}

// Merge always builds a document from whatever the inputs hold. The only
// error is ErrInvalidMenu, when the document is still invalid after repair.
func (m *Merger) Merge(ocr OCRResult, ai QuickAnalysisResult) (*ExtractedMenu, error) {
	start := m.now()

	built := make([]MenuSection, 0, len(ai.Sections))
	for order, aiSection := range ai.Sections {
		built = append(built, m.buildSection(order, aiSection, ocr.Lines))
	}

	sections := m.postProcess(built)

	menu := &ExtractedMenu{
		Sections:   sections,
		Confidence: OverallConfidence(sections),
		RawText:    ocr.Text,
		Metadata: Metadata{
			ExtractionMethod: m.opts.ExtractionMethod,
			Model:            m.opts.Model,
			OCRConfidence:    ocr.Confidence,
			Language:         firstNonEmpty(ai.Language, ocr.Language),
			Currency:         ai.Currency,
		},
	}
	if ai.MenuType != nil {
		menu.Metadata.MenuType = *ai.MenuType
	}
	menu.Items = menu.Flatten()

	err := ValidateAndRepair(menu)

	menu.Metadata.Warnings = Warnings(menu, ocr, m.opts)
	menu.Metadata.ProcessingTimeMs = m.now().Sub(start).Milliseconds()

	if err != nil {
		return menu, err
	}

	m.logger.Debug("menu merged",
		zap.Int("sections", len(menu.Sections)),
		zap.Int("items", len(menu.Items)),
		zap.Float64("confidence", menu.Confidence),
		zap.Int("warnings", len(menu.Metadata.Warnings)),
	)
	return menu, nil
}

func (m *Merger) buildSection(order int, ai AISection, lines []OCRLine) MenuSection {
	name := truncate(strings.TrimSpace(ai.Name), maxSectionNameLength)
	if name == "" {
		name = defaultSectionName
	}

	section := MenuSection{
		ID:           m.newID(),
		Name:         name,
		Confidence:   CalculateSectionConfidence(ai, FindBestTextMatch(name, lines)),
		Items:        []MenuItem{},
		DisplayOrder: order,
		BundleInfo:   FindBundleInOCR(name, lines),
	}
	if section.BundleInfo != nil {
		m.logger.Debug("bundle section detected",
			zap.String("section", section.Name),
			zap.String("type", string(section.BundleInfo.Type)),
		)
	}

	items := make([]AIItem, 0, len(ai.Items))
	for _, it := range ai.Items {
		if strings.TrimSpace(it.Name) != "" {
			items = append(items, it)
		}
	}

	var bundled []MenuItem
	for idx, aiItem := range items {
		item := m.buildItem(aiItem, section, idx, len(items), lines)
		if item.IsPartOfBundle {
			bundled = append(bundled, item)
		}
		section.Items = append(section.Items, item)
	}

	if section.BundleInfo != nil && len(bundled) > 0 {
		section.BundleInfo.Choices = GroupBundleChoices(bundled)
	}
	return section
}

func (m *Merger) buildItem(ai AIItem, section MenuSection, idx, total int, lines []OCRLine) MenuItem {
	name := strings.TrimSpace(ai.Name)

	textMatch := FindBestTextMatch(name, lines)
	priceMatch := FindPriceInOCR(name, lines)
	var lineIdx *int
	if textMatch != nil {
		lineIdx = &textMatch.LineIndex
	}
	descMatch := FindDescriptionInOCR(name, lines, lineIdx)

	description := strings.TrimSpace(ai.Description)
	if description == "" && descMatch != nil {
		description = descMatch.Text
	}
	description = truncate(description, maxDescriptionLength)

	var price *float64
	switch {
	case priceMatch != nil:
		price = floatPtr(priceMatch.Value)
	case ai.Price != nil:
		price = floatPtr(*ai.Price)
	}

	item := MenuItem{
		ID:          m.newID(),
		Name:        truncate(name, maxItemNameLength),
		Price:       price,
		Description: description,
		Allergens:   InferAllergensFromText(description),
		Dietary:     InferDietaryTags(name + " " + description),
		Confidence:  CalculateItemConfidence(ai, textMatch, priceMatch, descMatch),
		Category:    section.Name,
		Available:   true,
	}
	if textMatch != nil {
		bbox := textMatch.BoundingBox
		item.BoundingBox = &bbox
	}

	if section.BundleInfo != nil {
		item.Price = nil
		item.IsPartOfBundle = true
		item.BundleID = section.ID
		item.ChoiceGroup = CategorizeChoiceGroup(name, section.Name, idx, total, ai.Description)
	}
	return item
}

// postProcess runs implied-bundle detection and orphan linking in a single
// forward pass. Each section is copied before it is changed and the backward
// lookup only reads sections already emitted.
func (m *Merger) postProcess(built []MenuSection) []MenuSection {
	out := make([]MenuSection, 0, len(built))
	for _, s := range built {
		s.Items = append([]MenuItem{}, s.Items...)

		if s.BundleInfo == nil {
			m.applyImpliedBundle(&s)
		}
		if s.BundleInfo == nil && isComponentSection(s.Name) {
			if parent := findParentBundle(out); parent != nil {
				m.linkOrphan(&s, parent)
			}
		}

		out = append(out, s)
	}
	return out
}

// applyImpliedBundle turns a section into a lunch special when it lists a
// priced "N-course" item next to unpriced or doubtful dishes.
func (m *Merger) applyImpliedBundle(s *MenuSection) {
	if s.Confidence <= m.opts.ImpliedBundleSectionConfidence {
		return
	}

	var anchors, choices []int
	maxCourses := 0
	maxPrice := 0.0
	for i, item := range s.Items {
		if n := courseCount(fold(item.Name)); n > 0 {
			if item.Price != nil {
				anchors = append(anchors, i)
				maxCourses = max(maxCourses, n)
				maxPrice = max(maxPrice, *item.Price)
			}
			continue
		}
		if item.Confidence < m.opts.ImpliedBundleItemConfidence || item.Price == nil {
			choices = append(choices, i)
		}
	}
	if len(anchors) == 0 || len(choices) == 0 {
		return
	}

	info := &BundleInfo{
		Type:        BundleLunchSpecial,
		Courses:     maxCourses,
		SharedPrice: floatPtr(maxPrice),
		PriceUnit:   PriceFixed,
	}
	info.Description = describeBundle(info)

	for _, i := range anchors {
		s.Items[i].Description = fmt.Sprintf("Choose %d courses.", courseCount(fold(s.Items[i].Name)))
	}

	bundled := make([]MenuItem, 0, len(choices))
	for k, i := range choices {
		item := &s.Items[i]
		item.Price = nil
		item.IsPartOfBundle = true
		item.BundleID = s.ID
		item.ChoiceGroup = CategorizeChoiceGroup(item.Name, s.Name, k, len(choices), item.Description)
		bundled = append(bundled, *item)
	}
	info.Choices = GroupBundleChoices(bundled)
	s.BundleInfo = info

	m.logger.Debug("implied bundle synthesized",
		zap.String("section", s.Name),
		zap.Int("courses", maxCourses),
		zap.Int("choices", len(choices)),
	)
}

func isComponentSection(name string) bool {
	return componentSectionPattern.MatchString(Normalize(name))
}

// findParentBundle scans processed sections backwards for the nearest one
// with bundle info. A non-component section in between ends the search.
func findParentBundle(processed []MenuSection) *MenuSection {
	for j := len(processed) - 1; j >= 0; j-- {
		if processed[j].BundleInfo != nil {
			return &processed[j]
		}
		if !isComponentSection(processed[j].Name) {
			return nil
		}
	}
	return nil
}

func (m *Merger) linkOrphan(s *MenuSection, parent *MenuSection) {
	shared := parent.BundleInfo.SharedPrice != nil
	for i := range s.Items {
		item := &s.Items[i]
		item.IsPartOfBundle = true
		item.BundleID = parent.ID
		item.ChoiceGroup = CategorizeChoiceGroup(item.Name, s.Name, i, len(s.Items), item.Description)
		if shared {
			item.Price = nil
		}
	}
	m.logger.Debug("component section linked to bundle",
		zap.String("section", s.Name),
		zap.String("bundle", parent.Name),
	)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
