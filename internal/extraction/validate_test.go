package extraction

import (
	"errors"
	"strings"
	"testing"
)

func validMenu() *ExtractedMenu {
	menu := &ExtractedMenu{
		Sections: []MenuSection{
			{ID: "s1", Name: "Starters", Confidence: 80, Items: []MenuItem{
				{ID: "i1", Name: "Soup", Price: floatPtr(6), Confidence: 70, Allergens: []Allergen{AllergenCelery}, Dietary: []DietaryTag{}},
				{ID: "i2", Name: "Oysters", Confidence: 40, Allergens: []Allergen{}, Dietary: []DietaryTag{}},
			}},
			{ID: "s2", Name: "Desserts", Confidence: 90, Items: []MenuItem{}},
		},
	}
	menu.Items = menu.Flatten()
	return menu
}

func TestValidate_Valid(t *testing.T) {
	if errs := Validate(validMenu()); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidate_ReportsViolations(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].Items[0].Price = floatPtr(-1)
	menu.Sections[0].Items[1].Allergens = []Allergen{"gluten", "chocolate"}
	menu.Sections[0].Items[1].ChoiceGroup = "brunch"
	menu.Sections[1].Name = ""
	menu.Items = menu.Items[:1]

	errs := Validate(menu)
	paths := make([]string, 0, len(errs))
	for _, e := range errs {
		paths = append(paths, e.Path)
	}
	joined := strings.Join(paths, ",")

	for _, want := range []string{
		"sections[0].items[0].price",
		"sections[0].items[1].allergens",
		"sections[0].items[1].choiceGroup",
		"sections[1].name",
		"items",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected violation at %s, got %s", want, joined)
		}
	}
}

func TestValidate_BundlePriceExclusivity(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].BundleInfo = &BundleInfo{Type: BundlePrixFixe, SharedPrice: floatPtr(30), PriceUnit: PriceFixed}
	menu.Sections[0].Items[0].IsPartOfBundle = true
	menu.Items = menu.Flatten()

	errs := Validate(menu)
	if len(errs) != 1 || errs[0].Path != "sections[0].items[0].price" {
		t.Fatalf("expected a double pricing violation, got %v", errs)
	}
}

func TestValidate_LinkedComponentPriceExclusivity(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].BundleInfo = &BundleInfo{Type: BundleMultiCourse, SharedPrice: floatPtr(39.5), PriceUnit: PriceFixed}
	menu.Sections[1].Items = []MenuItem{{
		ID: "i3", Name: "Tiramisu", Price: floatPtr(7.5), Confidence: 80,
		IsPartOfBundle: true, BundleID: "s1", ChoiceGroup: ChoiceDessert,
		Allergens: []Allergen{}, Dietary: []DietaryTag{},
	}}
	menu.Items = menu.Flatten()

	errs := Validate(menu)
	if len(errs) != 1 || errs[0].Path != "sections[1].items[0].price" {
		t.Fatalf("expected a double pricing violation on the linked item, got %v", errs)
	}

	menu.Sections[1].Items[0].Price = nil
	menu.Items = menu.Flatten()
	if errs := Validate(menu); len(errs) != 0 {
		t.Fatalf("expected no errors once unpriced, got %v", errs)
	}
}

func TestValidateAndRepair_CoercesPricesAndRebuildsItems(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].Items[0].Price = floatPtr(0)
	menu.Items = nil

	if err := ValidateAndRepair(menu); err != nil {
		t.Fatalf("expected repair to succeed, got %v", err)
	}
	if menu.Sections[0].Items[0].Price != nil {
		t.Fatal("expected zero price coerced to nil")
	}
	if len(menu.Items) != 2 || menu.Items[0].ID != "i1" || menu.Items[1].ID != "i2" {
		t.Fatalf("expected rebuilt items, got %+v", menu.Items)
	}
}

func TestValidateAndRepair_Unrecoverable(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].Items[0].Name = ""

	err := ValidateAndRepair(menu)
	if !errors.Is(err, ErrInvalidMenu) {
		t.Fatalf("expected ErrInvalidMenu, got %v", err)
	}
	if !strings.Contains(err.Error(), "sections[0].items[0].name") {
		t.Fatalf("expected the violation in the error, got %v", err)
	}
}

func TestWarnings(t *testing.T) {
	menu := validMenu()
	ocr := OCRResult{Confidence: 50, Lines: lines("Soup 6.00")}

	got := Warnings(menu, ocr, DefaultOptions())
	want := []string{
		"Low OCR confidence (50%), review the extracted menu carefully",
		"1 section(s) have no items",
		"1 item(s) have no price",
		"1 item(s) have low confidence",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected warnings:\n got %q\nwant %q", got, want)
	}
}

func TestWarnings_BundleItemsAreNotUnpriced(t *testing.T) {
	menu := validMenu()
	menu.Sections[0].Items[1].IsPartOfBundle = true
	ocr := OCRResult{Confidence: 90, Lines: lines("Soup 6.00")}

	for _, w := range Warnings(menu, ocr, DefaultOptions()) {
		if strings.Contains(w, "no price") {
			t.Fatalf("bundle items must not count as unpriced: %q", w)
		}
	}
}
