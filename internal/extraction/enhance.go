package extraction

import (
	"strings"
)

type itemRef struct {
	section int
	item    int
}

// ApplyEnhancement patches a merged menu with a second, higher-resolution
// analysis. Higher-confidence enhancement data replaces price, description
// and confidence; lower-confidence data only fills gaps. Items are never
// added. The input menu is left untouched; the count of patched items is
// returned with the new document.
func ApplyEnhancement(menu *ExtractedMenu, enh QuickAnalysisResult) (*ExtractedMenu, int, error) {
	out := cloneMenu(menu)

	bySection := make(map[string]map[string]itemRef, len(out.Sections))
	global := make(map[string]itemRef)
	for si, s := range out.Sections {
		key := Normalize(s.Name)
		if bySection[key] == nil {
			bySection[key] = make(map[string]itemRef)
		}
		for ii, item := range s.Items {
			name := Normalize(item.Name)
			ref := itemRef{section: si, item: ii}
			if _, ok := bySection[key][name]; !ok {
				bySection[key][name] = ref
			}
			if _, ok := global[name]; !ok {
				global[name] = ref
			}
		}
	}

	bundles := make(map[string]*BundleInfo)
	for si := range out.Sections {
		if info := out.Sections[si].BundleInfo; info != nil {
			bundles[out.Sections[si].ID] = info
		}
	}

	patched := 0
	seen := make(map[itemRef]bool)
	for _, es := range enh.Sections {
		local := bySection[Normalize(es.Name)]
		for _, ei := range es.Items {
			name := Normalize(ei.Name)
			if name == "" {
				continue
			}
			ref, ok := local[name]
			if !ok {
				if ref, ok = global[name]; !ok {
					continue
				}
			}

			s := &out.Sections[ref.section]
			item := &s.Items[ref.item]
			bundle := s.BundleInfo
			if item.BundleID != "" {
				bundle = bundles[item.BundleID]
			}
			if patchItem(item, ei, bundle) && !seen[ref] {
				seen[ref] = true
				patched++
			}
		}
	}

	for si := range out.Sections {
		s := &out.Sections[si]
		if s.BundleInfo == nil || s.BundleInfo.Choices == nil {
			continue
		}
		var bundled []MenuItem
		for _, item := range s.Items {
			if item.IsPartOfBundle && item.BundleID == s.ID {
				bundled = append(bundled, item)
			}
		}
		s.BundleInfo.Choices = GroupBundleChoices(bundled)
	}

	out.Confidence = OverallConfidence(out.Sections)
	out.Items = out.Flatten()
	if err := ValidateAndRepair(out); err != nil {
		return out, patched, err
	}
	return out, patched, nil
}

// patchItem applies one enhancement item and reports whether anything changed.
func patchItem(item *MenuItem, enh AIItem, bundle *BundleInfo) bool {
	changed := false
	description := strings.TrimSpace(enh.Description)
	lockedPrice := item.IsPartOfBundle && bundle != nil && bundle.SharedPrice != nil
	validPrice := enh.Price != nil && *enh.Price > 0 && !lockedPrice

	if enh.Confidence > item.Confidence {
		if validPrice {
			item.Price = floatPtr(*enh.Price)
			changed = true
		}
		if description != "" && description != item.Description {
			item.Description = truncate(description, maxDescriptionLength)
			changed = true
		}
		item.Confidence = clampConfidence(enh.Confidence)
		changed = true
	} else {
		if item.Price == nil && validPrice {
			item.Price = floatPtr(*enh.Price)
			changed = true
		}
		if item.Description == "" && description != "" {
			item.Description = truncate(description, maxDescriptionLength)
			changed = true
		}
	}

	if changed {
		item.Allergens = unionAllergens(item.Allergens, InferAllergensFromText(item.Description))
		item.Dietary = unionDietary(item.Dietary, InferDietaryTags(item.Name+" "+item.Description))
	}
	return changed
}

func cloneMenu(menu *ExtractedMenu) *ExtractedMenu {
	out := *menu
	out.Metadata.Warnings = append([]string{}, menu.Metadata.Warnings...)
	out.Sections = make([]MenuSection, len(menu.Sections))
	for si, s := range menu.Sections {
		s.Items = make([]MenuItem, len(menu.Sections[si].Items))
		for ii, item := range menu.Sections[si].Items {
			s.Items[ii] = cloneItem(item)
		}
		if s.BundleInfo != nil {
			info := *s.BundleInfo
			if info.SharedPrice != nil {
				info.SharedPrice = floatPtr(*info.SharedPrice)
			}
			s.BundleInfo = &info
		}
		out.Sections[si] = s
	}
	out.Items = out.Flatten()
	return &out
}

func cloneItem(item MenuItem) MenuItem {
	if item.Price != nil {
		item.Price = floatPtr(*item.Price)
	}
	if item.BoundingBox != nil {
		bbox := *item.BoundingBox
		item.BoundingBox = &bbox
	}
	item.Allergens = append([]Allergen{}, item.Allergens...)
	item.Dietary = append([]DietaryTag{}, item.Dietary...)
	return item
}
