package extraction

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxItemNameLength    = 100
	maxDescriptionLength = 500
	maxSectionNameLength = 50
)

// ErrInvalidMenu is returned when a merged menu still violates the data
// model after the repair pass.
var ErrInvalidMenu = errors.New("extracted menu failed validation")

// ValidationError points at one violated constraint.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}

// Validate checks every section and item against the data model and the
// flattened-items invariant.
func Validate(menu *ExtractedMenu) []ValidationError {
	var errs []ValidationError
	add := func(path, format string, args ...any) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	shared := sharedPriceBundles(menu.Sections)
	for si, s := range menu.Sections {
		sp := fmt.Sprintf("sections[%d]", si)
		if n := utf8.RuneCountInString(s.Name); n < 1 || n > maxSectionNameLength {
			add(sp+".name", "length %d outside 1..%d", n, maxSectionNameLength)
		}
		if s.Confidence < 0 || s.Confidence > maxConfidence {
			add(sp+".confidence", "%v outside 0..100", s.Confidence)
		}

		for ii, item := range s.Items {
			ip := fmt.Sprintf("%s.items[%d]", sp, ii)
			if n := utf8.RuneCountInString(item.Name); n < 1 || n > maxItemNameLength {
				add(ip+".name", "length %d outside 1..%d", n, maxItemNameLength)
			}
			if item.Price != nil && *item.Price <= 0 {
				add(ip+".price", "must be positive or null, got %v", *item.Price)
			}
			if n := utf8.RuneCountInString(item.Description); n > maxDescriptionLength {
				add(ip+".description", "length %d over %d", n, maxDescriptionLength)
			}
			if item.Confidence < 0 || item.Confidence > maxConfidence {
				add(ip+".confidence", "%v outside 0..100", item.Confidence)
			}
			for _, a := range item.Allergens {
				if !allAllergens[a] {
					add(ip+".allergens", "unknown allergen %q", a)
				}
			}
			for _, d := range item.Dietary {
				if !allDietaryTags[d] {
					add(ip+".dietary", "unknown dietary tag %q", d)
				}
			}
			if item.ChoiceGroup != "" && !allChoiceGroups[item.ChoiceGroup] {
				add(ip+".choiceGroup", "unknown choice group %q", item.ChoiceGroup)
			}
			if item.IsPartOfBundle && item.Price != nil && (shared[item.BundleID] || shared[s.ID]) {
				add(ip+".price", "bundle item priced inside a shared-price bundle")
			}
		}
	}

	flat := menu.Flatten()
	if len(flat) != len(menu.Items) {
		add("items", "has %d entries, sections hold %d", len(menu.Items), len(flat))
	} else {
		for i := range flat {
			if flat[i].ID != menu.Items[i].ID {
				add(fmt.Sprintf("items[%d]", i), "out of section order")
				break
			}
		}
	}

	return errs
}

// sharedPriceBundles returns the ids of sections whose bundle carries a
// shared price. Linked component items point at these through BundleID.
func sharedPriceBundles(sections []MenuSection) map[string]bool {
	shared := make(map[string]bool)
	for _, s := range sections {
		if s.BundleInfo != nil && s.BundleInfo.SharedPrice != nil {
			shared[s.ID] = true
		}
	}
	return shared
}

// repair coerces non-positive prices to null and rebuilds the flattened
// items from the sections.
func repair(menu *ExtractedMenu) {
	for si := range menu.Sections {
		s := &menu.Sections[si]
		for ii := range s.Items {
			if p := s.Items[ii].Price; p != nil && *p <= 0 {
				s.Items[ii].Price = nil
			}
		}
		if s.BundleInfo != nil && s.BundleInfo.SharedPrice != nil && *s.BundleInfo.SharedPrice <= 0 {
			s.BundleInfo.SharedPrice = nil
		}
	}
	menu.Items = menu.Flatten()
}

// ValidateAndRepair validates, repairs once on failure and validates again.
// It returns ErrInvalidMenu if the second validation still fails.
func ValidateAndRepair(menu *ExtractedMenu) error {
	if errs := Validate(menu); len(errs) == 0 {
		return nil
	}

	repair(menu)

	errs := Validate(menu)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidMenu, strings.Join(msgs, "; "))
}

// Warnings lists what a human reviewer should check.
func Warnings(menu *ExtractedMenu, ocr OCRResult, opts Options) []string {
	warnings := make([]string, 0)

	if len(ocr.Lines) == 0 {
		warnings = append(warnings, "No OCR text was recognized; items are based on AI analysis only")
	}
	if ocr.Confidence < opts.LowOCRConfidence {
		warnings = append(warnings, fmt.Sprintf("Low OCR confidence (%.0f%%), review the extracted menu carefully", ocr.Confidence))
	}

	var empty, unpriced, lowConf int
	for _, s := range menu.Sections {
		if len(s.Items) == 0 {
			empty++
		}
		for _, item := range s.Items {
			if item.Price == nil && !item.IsPartOfBundle {
				unpriced++
			}
			if item.Confidence < opts.LowItemConfidence {
				lowConf++
			}
		}
	}

	if empty > 0 {
		warnings = append(warnings, fmt.Sprintf("%d section(s) have no items", empty))
	}
	if unpriced > 0 {
		warnings = append(warnings, fmt.Sprintf("%d item(s) have no price", unpriced))
	}
	if lowConf > 0 {
		warnings = append(warnings, fmt.Sprintf("%d item(s) have low confidence", lowConf))
	}
	return warnings
}
