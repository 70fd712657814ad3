package extraction

import "regexp"

type choiceRule struct {
	group   ChoiceGroup
	pattern *regexp.Regexp
}

// Course words: explicit hints that name the course itself. Checked in this
// order so that "main course with fries" stays a main.
var courseRules = []choiceRule{
	{ChoiceStarter, regexp.MustCompile(`\b(starters?|appeti[sz]ers?|voorgerecht(en)?|voorafje|entrees?|hors d'?oeuvres?|antipast[oi]|vorspeisen?|entradas?|entrantes?|primi|amuse)\b`)},
	{ChoiceMain, regexp.MustCompile(`\b(mains?|main courses?|hoofdgerecht(en)?|plats? principa(l|ux)|plat|hauptgerichte?|hauptspeisen?|platos? principal(es)?|platos? fuertes?|secondi|secondo)\b`)},
	{ChoiceDessert, regexp.MustCompile(`\b(desserts?|nagerecht(en)?|toetjes?|postres?|dolci|dolce|nachspeisen?|nachtisch|sweets)\b`)},
	{ChoiceSide, regexp.MustCompile(`\b(sides?|side dish(es)?|bijgerecht(en)?|garnituur|accompagnements?|beilagen?|guarniciones?|contorni|contorno)\b`)},
	{ChoiceDrink, regexp.MustCompile(`\b(drinks?|dranken|drank|beverages?|boissons?|getranke|bebidas?|bevande)\b`)},
}

// Common dish names per course.
var dishRules = []choiceRule{
	{ChoiceStarter, regexp.MustCompile(`\b(soup|\w*soep|soupe|suppe|sopa|zuppa|bisque|veloute|gazpacho|minestrone|\w*salade|salad|salat|ensalada|insalata|caesar|carpaccio|bruschetta|crostini|tartaar|tartare|pate|terrine|rillettes|croquettes?|kroketjes|bitterballen|shrimp cocktail|prawn cocktail|garnalencocktail|calamari|spring rolls?|loempia|dim sum|gyoza|edamame|hummus|nachos|wings)\b`)},
	{ChoiceMain, regexp.MustCompile(`\b(steak|biefstuk|entrecote|ribeye|tournedos|filet|ossenhaas|schnitzel|burger|pasta|spaghetti|tagliatelle|risotto|lasagne|curry|stew|stoof\w*|stoofvlees|fricassee|\w*fricassee|ragout|goulash|kip|chicken|poulet|pollo|huhn|lamb|lam|lamsrack|agneau|varken\w*|pork|porc|duck|eend|canard|confit|veal|kalf\w*|veau|schol|kabeljauw|zalmfilet|salmon fillet|fish and chips|paella|moussaka|pizza|ramen|pad thai|biryani|tajine|couscous)\b`)},
	{ChoiceDessert, regexp.MustCompile(`\b(tiramisu|panna cotta|creme brulee|cheesecake|\w*taart|taartje|cake|brownie|mousse|sorbet|gelato|ice cream|ijs|ijsje|dame blanche|profiteroles?|moelleux|fondant|crumble|apple pie|appeltaart|apfelstrudel|strudel|parfait|sabayon|zabaglione|cannoli|churros|flan|clafoutis|tarte tatin|coupe|sundae|affogato|baklava)\b`)},
	{ChoiceSide, regexp.MustCompile(`\b(fries|friet|frites|patat|pommes|chips|rice|rijst|riz|reis|arroz|bread|brood|stokbrood|mashed potatoes|puree|stamppot|coleslaw|side salad|rauwkost|groenten|vegetables|legumes)\b`)},
	{ChoiceDrink, regexp.MustCompile(`\b(wine|wijn|huiswijn|vin|wein|vino|beer|bier|tapbier|biere|cerveza|birra|coffee|koffie|cafe|espresso|cappuccino|latte|tea|thee|water|spa|soda|cola|frisdrank|juice|sap|lemonade|limonade|cocktail|mocktail|prosecco|cava|champagne)\b`)},
}

func matchRules(rules []choiceRule, folded string) (ChoiceGroup, bool) {
	for _, rule := range rules {
		if rule.pattern.MatchString(folded) {
			return rule.group, true
		}
	}
	return "", false
}

// CategorizeChoiceGroup infers the course of a bundle item. It always returns
// a group: description hints first, then the item name, then the section
// name, then position within the bundle.
func CategorizeChoiceGroup(itemName, sectionName string, itemIndex, totalItems int, description string) ChoiceGroup {
	if description != "" {
		if g, ok := matchRules(courseRules, fold(description)); ok {
			return g
		}
	}

	name := fold(itemName)
	if g, ok := matchRules(courseRules, name); ok {
		return g
	}
	if g, ok := matchRules(dishRules, name); ok {
		return g
	}

	if g, ok := matchRules(courseRules, fold(sectionName)); ok {
		return g
	}

	if totalItems == 3 && itemIndex == 2 {
		return ChoiceDessert
	}

	if totalItems <= 0 {
		return ChoiceMain
	}
	pos := float64(itemIndex) / float64(totalItems)
	switch {
	case pos < 1.0/3:
		return ChoiceStarter
	case pos < 2.0/3:
		return ChoiceMain
	default:
		return ChoiceDessert
	}
}

// GroupBundleChoices partitions bundle items by choice group, keeping order.
func GroupBundleChoices(items []MenuItem) *BundleChoices {
	choices := &BundleChoices{
		Starters: []MenuItem{},
		Mains:    []MenuItem{},
		Desserts: []MenuItem{},
	}
	for _, item := range items {
		switch item.ChoiceGroup {
		case ChoiceStarter, ChoiceAppetizer:
			choices.Starters = append(choices.Starters, item)
		case ChoiceMain:
			choices.Mains = append(choices.Mains, item)
		case ChoiceDessert:
			choices.Desserts = append(choices.Desserts, item)
		case ChoiceSide:
			choices.Sides = append(choices.Sides, item)
		case ChoiceDrink:
			choices.Drinks = append(choices.Drinks, item)
		}
	}
	return choices
}
