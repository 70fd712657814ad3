package extraction

import "testing"

func TestCategorizeChoiceGroup(t *testing.T) {
	tests := []struct {
		name        string
		item        string
		section     string
		index       int
		total       int
		description string
		want        ChoiceGroup
	}{
		{"dish name dessert", "Tiramisu", "Menu", 0, 3, "", ChoiceDessert},
		{"dish name beats position", "Caesar salad", "Menu", 2, 3, "", ChoiceStarter},
		{"dish name main", "Steak", "", 0, 3, "", ChoiceMain},
		{"multilingual dish", "Kalfsfricassée", "Lunch", 0, 2, "", ChoiceMain},
		{"description hint first", "Chef's choice", "Menu", 0, 3, "served as dessert", ChoiceDessert},
		{"section name", "Chef's choice", "Voorgerechten", 2, 3, "", ChoiceStarter},
		{"third of three", "Surprise", "Menu", 2, 3, "", ChoiceDessert},
		{"first third", "Surprise", "Menu", 0, 6, "", ChoiceStarter},
		{"middle third", "Surprise", "Menu", 3, 6, "", ChoiceMain},
		{"last third", "Surprise", "Menu", 5, 6, "", ChoiceDessert},
		{"no position", "Surprise", "Menu", 0, 0, "", ChoiceMain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeChoiceGroup(tt.item, tt.section, tt.index, tt.total, tt.description)
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGroupBundleChoices(t *testing.T) {
	items := []MenuItem{
		{Name: "Soup", ChoiceGroup: ChoiceStarter},
		{Name: "Bruschetta", ChoiceGroup: ChoiceAppetizer},
		{Name: "Steak", ChoiceGroup: ChoiceMain},
		{Name: "Tiramisu", ChoiceGroup: ChoiceDessert},
		{Name: "House wine", ChoiceGroup: ChoiceDrink},
	}

	got := GroupBundleChoices(items)

	if len(got.Starters) != 2 || got.Starters[0].Name != "Soup" || got.Starters[1].Name != "Bruschetta" {
		t.Fatalf("unexpected starters %+v", got.Starters)
	}
	if len(got.Mains) != 1 || len(got.Desserts) != 1 {
		t.Fatalf("unexpected mains/desserts %+v %+v", got.Mains, got.Desserts)
	}
	if got.Sides != nil {
		t.Fatalf("sides should be absent, got %+v", got.Sides)
	}
	if len(got.Drinks) != 1 {
		t.Fatalf("expected one drink, got %+v", got.Drinks)
	}
}

func TestGroupBundleChoices_EmptyListsPresent(t *testing.T) {
	got := GroupBundleChoices(nil)
	if got.Starters == nil || got.Mains == nil || got.Desserts == nil {
		t.Fatalf("starters, mains and desserts must be non-nil: %+v", got)
	}
}
