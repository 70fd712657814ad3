package extraction

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectBundleKeywords(t *testing.T) {
	tests := []struct {
		text   string
		ok     bool
		want   BundleType
		course int
		unit   PriceUnit
	}{
		{"3-gangen menu incl. wijn", true, BundleDinnerWithDrinks, 3, PriceFixed},
		{"Lunch special", true, BundleLunchSpecial, 0, PriceFixed},
		{"Menú del día", true, BundleLunchSpecial, 0, PriceFixed},
		{"Prix fixe 35 p.p.", true, BundlePrixFixe, 0, PricePerPerson},
		{"Combo deal", true, BundleCombo, 0, PriceFixed},
		{"Three course dinner", true, BundleMultiCourse, 3, PriceFixed},
		{"Menu 4 plats par personne", true, BundleMultiCourse, 4, PricePerPerson},
		{"Desserts", false, "", 0, ""},
		{"", false, "", 0, ""},
	}

	for _, tt := range tests {
		sig, ok := DetectBundleKeywords(tt.text)
		if ok != tt.ok {
			t.Errorf("DetectBundleKeywords(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if sig.Type != tt.want || sig.Courses != tt.course || sig.PriceUnit != tt.unit {
			t.Errorf("DetectBundleKeywords(%q) = %+v, want type %s courses %d unit %s",
				tt.text, sig, tt.want, tt.course, tt.unit)
		}
	}
}

func TestFindBundleInOCR_DinnerWithDrinks(t *testing.T) {
	l := lines(
		"3-GANGEN MENU 39.50 p.p.",
		"incl. 1/2 liter huiswijn of tapbier",
		"Soep van de dag",
		"Stoofvlees 4.50",
	)

	got := FindBundleInOCR("3-gangen menu", l)
	if got == nil {
		t.Fatal("expected bundle info")
	}

	want := &BundleInfo{
		Type:        BundleDinnerWithDrinks,
		Courses:     3,
		SharedPrice: floatPtr(39.5),
		PriceUnit:   PricePerPerson,
		Description: "3-course dinner with drinks at 39.50 per person, includes 1/2 liter huiswijn or tapbier",
		IncludedDrinks: &IncludedDrinks{
			Options:  []string{"huiswijn", "tapbier"},
			Quantity: "1/2 liter",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bundle mismatch (-want +got):\n%s", diff)
	}
}

func TestFindBundleInOCR_FollowingLinePriceAboveTen(t *testing.T) {
	l := lines("Chef's menu", "Soup 6.50", "Menu price 45.00")
	got := FindBundleInOCR("Chef's menu", l)
	if got == nil {
		t.Fatal("expected bundle info")
	}
	if got.SharedPrice == nil || *got.SharedPrice != 45 {
		t.Fatalf("expected shared price 45, got %v", got.SharedPrice)
	}
	if got.Type != BundleMultiCourse {
		t.Fatalf("expected multi-course, got %s", got.Type)
	}
}

func TestFindBundleInOCR_NilWithoutPrice(t *testing.T) {
	if got := FindBundleInOCR("Lunch special", lines("Lunch special", "Soup of the day")); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := FindBundleInOCR("Mains", lines("Mains 25.00")); got != nil {
		t.Fatalf("expected nil for a plain section, got %+v", got)
	}
	if got := FindBundleInOCR("Lunch special", lines("Mains 25.00")); got != nil {
		t.Fatalf("expected nil when the section line is missing, got %+v", got)
	}
}
