package extraction

import "testing"

func TestCalculateItemConfidence(t *testing.T) {
	tests := []struct {
		name  string
		ai    AIItem
		text  *TextMatch
		price *PriceMatch
		desc  *DescriptionMatch
		want  float64
	}{
		{
			name: "nothing known uses defaults",
			ai:   AIItem{Name: "Soup"},
			want: 27,
		},
		{
			name:  "corroborated by OCR",
			ai:    AIItem{Name: "Soup", Confidence: 80},
			text:  &TextMatch{Confidence: 100},
			price: &PriceMatch{Value: 5, Confidence: 90},
			desc:  &DescriptionMatch{Text: "tomato", Confidence: 85},
			want:  92,
		},
		{
			name: "AI only",
			ai:   AIItem{Name: "Soup", Price: floatPtr(5), Description: "tomato", Confidence: 90},
			want: 73,
		},
		{
			name:  "capped at 100",
			ai:    AIItem{Name: "Soup", Confidence: 150},
			price: &PriceMatch{Confidence: 90},
			desc:  &DescriptionMatch{Confidence: 85},
			want:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateItemConfidence(tt.ai, tt.text, tt.price, tt.desc)
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateItemConfidence_CorroborationWins(t *testing.T) {
	ai := AIItem{Name: "Soup", Price: floatPtr(5), Description: "tomato", Confidence: 80}
	aiOnly := CalculateItemConfidence(ai, nil, nil, nil)
	both := CalculateItemConfidence(ai,
		&TextMatch{Confidence: 95},
		&PriceMatch{Confidence: 90},
		&DescriptionMatch{Confidence: 85},
	)
	if both <= aiOnly {
		t.Fatalf("corroborated item (%v) should outscore AI-only item (%v)", both, aiOnly)
	}
}

func TestCalculateSectionConfidence(t *testing.T) {
	ai := AISection{Name: "Mains", Confidence: 77}

	if got := CalculateSectionConfidence(ai, &TextMatch{Confidence: 90}); got != 95 {
		t.Fatalf("expected cap 95, got %v", got)
	}
	if got := CalculateSectionConfidence(ai, &TextMatch{Confidence: 70}); got != 80 {
		t.Fatalf("expected 80, got %v", got)
	}
	if got := CalculateSectionConfidence(ai, nil); got != 77 {
		t.Fatalf("expected AI confidence 77, got %v", got)
	}
}

func TestOverallConfidence(t *testing.T) {
	sections := []MenuSection{
		{Name: "Starters", Confidence: 82, Items: []MenuItem{{Confidence: 70}, {Confidence: 60}}},
		{Name: "Mains", Confidence: 91, Items: []MenuItem{{Confidence: 100}}},
	}
	// (82 + 70 + 60 + 91 + 100) / 5 = 80.6
	if got := OverallConfidence(sections); got != 81 {
		t.Fatalf("expected 81, got %v", got)
	}
	if got := OverallConfidence(nil); got != 0 {
		t.Fatalf("expected 0 for an empty menu, got %v", got)
	}
}
