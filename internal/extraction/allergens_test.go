package extraction

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInferAllergensFromText(t *testing.T) {
	tests := []struct {
		text string
		want []Allergen
	}{
		{"Contains milk and eggs", []Allergen{AllergenDairy, AllergenEggs}},
		{"Gegratineerd met kaas en mosterd", []Allergen{AllergenDairy, AllergenMustard}},
		{"Saumon fumé, crème fraîche", []Allergen{AllergenDairy, AllergenFish}},
		{"Pad thai with peanuts and tofu", []Allergen{AllergenPeanuts, AllergenSoy}},
		{"", []Allergen{}},
	}

	for _, tt := range tests {
		got := InferAllergensFromText(tt.text)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("InferAllergensFromText(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}

func TestInferAllergensFromText_Shellfish(t *testing.T) {
	got := InferAllergensFromText("Shrimp cocktail")
	if !slices.Contains(got, AllergenShellfish) {
		t.Fatalf("expected shellfish in %v", got)
	}
}

func TestInferAllergensFromText_Deterministic(t *testing.T) {
	text := "Tagliatelle with salmon, cream and sesame"
	first := InferAllergensFromText(text)
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, InferAllergensFromText(text)); diff != "" {
			t.Fatalf("run %d differs:\n%s", i, diff)
		}
	}
}

func TestInferDietaryTags_VeganBeatsVegetarian(t *testing.T) {
	got := InferDietaryTags("(v) Plant-based burger")
	if !slices.Contains(got, DietaryVegan) {
		t.Fatalf("expected vegan in %v", got)
	}
	if slices.Contains(got, DietaryVegetarian) {
		t.Fatalf("vegetarian must not accompany vegan: %v", got)
	}
}

func TestInferDietaryTags(t *testing.T) {
	tests := []struct {
		text string
		want []DietaryTag
	}{
		{"Vegetarian lasagne (GF)", []DietaryTag{DietaryVegetarian, DietaryGlutenFree}},
		{"Spicy chicken wings", []DietaryTag{DietarySpicy}},
		{"Halal lamb skewers", []DietaryTag{DietaryHalal}},
		{"Biologische tomatensoep, glutenvrij", []DietaryTag{DietaryGlutenFree, DietaryOrganic}},
		{"Steak", []DietaryTag{}},
	}

	for _, tt := range tests {
		got := InferDietaryTags(tt.text)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("InferDietaryTags(%q) mismatch (-want +got):\n%s", tt.text, diff)
		}
	}
}
