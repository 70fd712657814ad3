package extraction

import "regexp"

// Patterns run against folded text (lowercase, no diacritics), so they are
// written without accents.

type allergenRule struct {
	allergen Allergen
	pattern  *regexp.Regexp
}

var allergenRules = []allergenRule{
	{AllergenGluten, regexp.MustCompile(`\b(gluten|wheat|tarwe|ble|weizen|trigo|grano|flour|bloem|farine|mehl|harina|farina|bread\w*|brood\w*|broodje|pain|brot|pasta|spaghetti|tagliatelle|penne|lasagne|noodles?|barley|gerst|orge|rye|rogge|seigle|roggen|spelt|semolina|couscous|bulgur|croutons?|panko|breaded|gepaneerd|pane)\b`)},
	{AllergenDairy, regexp.MustCompile(`\b(milk|melk|lait|milch|leche|latte|cream|creme|room|slagroom|sahne|nata|panna|cheese|kaas|fromage|kase|queso|formaggio|butter|boter|beurre|mantequilla|burro|yog(h)?urt|joghurt|mozzarella|parmesan|parmigiano|ricotta|mascarpone|feta|brie|camembert|gorgonzola|burrata|cheddar|gouda|pecorino|dairy|zuivel|lactose)\b`)},
	{AllergenEggs, regexp.MustCompile(`\b(eggs?|ei|eieren|oeufs?|eier|huevos?|uova|uovo|mayo|mayonnaise|mayonaise|aioli|meringue|hollandaise|bearnaise)\b`)},
	{AllergenFish, regexp.MustCompile(`\b(fish|vis|poisson|fisch|pescado|pesce|salmon|zalm|saumon|lachs|salmone|tuna|tonijn|thon|tonno|atun|cod|kabeljauw|cabillaud|haddock|schelvis|sea ?bass|zeebaars|trout|forel|truite|anchov(y|ies)|ansjovis|anchois|sardines?|sardinen|mackerel|makreel|maquereau|halibut|heilbot|sole|tong|dorade|swordfish|zwaardvis|herring|haring)\b`)},
	{AllergenShellfish, regexp.MustCompile(`\b(shellfish|schaaldieren|crustaceans?|shrimps?|prawns?|garnalen|garnaal|\w*garnalen\w*|crevettes?|gambas?|garnelen|camarones?|gamberi|gamberetti|crab|krab|crabe|cangrejo|granchio|lobster|kreeft|homard|hummer|langosta|aragosta|langoustines?|crayfish|rivierkreeft|scampi)\b`)},
	{AllergenMolluscs, regexp.MustCompile(`\b(molluscs?|mollusks?|weekdieren|mussels?|mosselen|moules|muscheln|mejillones|cozze|oysters?|oesters?|huitres?|austern|ostras|ostriche|clams?|vongole|almejas|scallops?|coquilles?|jakobsmuscheln|sint[- ]jakobsschelpen|squid|inktvis|calamari|calamares|octopus|pulpo|polpo|snails?|escargots?|slakken)\b`)},
	{AllergenNuts, regexp.MustCompile(`\b(nuts?|noten|noix|nusse|nuss|nueces|noci|almonds?|amandel(en)?|amandes?|mandeln|almendras?|mandorle|walnuts?|walnoten|hazelnuts?|hazelnoten|noisettes?|haselnuss\w*|cashews?|pecans?|pistachios?|pistaches?|pistacchi|macadamia|pine nuts|pijnboompitten|pignons|pinoli|praline|marzipan|frangipane)\b`)},
	{AllergenPeanuts, regexp.MustCompile(`\b(peanuts?|pinda('?s)?|pindakaas|pindasaus|cacahuetes?|arachides?|erdnuss\w*|mani|arachidi|satay|sate)\b`)},
	{AllergenSoy, regexp.MustCompile(`\b(soy|soya|soja|tofu|tempeh|edamame|miso|tamari|ketjap)\b`)},
	{AllergenSesame, regexp.MustCompile(`\b(sesam\w*|sesamo|tahini|tahin|gomasio|gomae)\b`)},
	{AllergenCelery, regexp.MustCompile(`\b(celery|selderij|selder|celeri|celeriac|knolselderij|sellerie|apio|sedano)\b`)},
	{AllergenMustard, regexp.MustCompile(`\b(mustard|mosterd\w*|moutarde|senf|mostaza|senape|dijon)\b`)},
	{AllergenSulfites, regexp.MustCompile(`\b(sulph?ites?|sulfiet(en)?|sulfite|sulfites|so2|wine|wijn|vin|wein|vino|vinegar|azijn|vinaigre|essig|vinagre|aceto|balsamic\w*)\b`)},
	{AllergenLupin, regexp.MustCompile(`\b(lupin(e|en)?|lupino|altramuz)\b`)},
}

// InferAllergensFromText returns the allergen tags whose keywords appear in
// text, in rule order, without duplicates.
func InferAllergensFromText(text string) []Allergen {
	out := make([]Allergen, 0)
	if text == "" {
		return out
	}
	folded := fold(text)
	for _, rule := range allergenRules {
		if rule.pattern.MatchString(folded) {
			out = append(out, rule.allergen)
		}
	}
	return out
}

var (
	veganPattern      = regexp.MustCompile(`\(\s*(vg|ve|vegan)\s*\)|\bvegan\w*|\bveganistisch\w*|plant[- ]?based|plantaardig|\bvegane?\b`)
	vegetarianPattern = regexp.MustCompile(`\(\s*v\s*\)|\bvegetari\w*|\bvegetarisch\w*|\bvegetarien\w*|\bveggie\b`)
)

type dietaryRule struct {
	tag     DietaryTag
	pattern *regexp.Regexp
}

var dietaryRules = []dietaryRule{
	{DietaryGlutenFree, regexp.MustCompile(`gluten[- ]?free|glutenvrij|sans gluten|glutenfrei|sin gluten|senza glutine|\(\s*gf\s*\)`)},
	{DietaryDairyFree, regexp.MustCompile(`dairy[- ]?free|lactose[- ]?free|lactosevrij|zuivelvrij|sans lactose|laktosefrei|sin lactosa|senza lattosio|\(\s*df\s*\)`)},
	{DietaryNutFree, regexp.MustCompile(`nut[- ]?free|notenvrij|sans noix|nussfrei|sin frutos secos|\(\s*nf\s*\)`)},
	{DietaryHalal, regexp.MustCompile(`\bhalal\b`)},
	{DietaryKosher, regexp.MustCompile(`\b(kosher|koosjer|casher|koscher)\b`)},
	{DietaryOrganic, regexp.MustCompile(`\b(organic|bio|biologisch\w*|biologique|organico|okologisch\w*)\b`)},
	{DietarySpicy, regexp.MustCompile(`\b(spicy|pittig|heet|piquant\w*|scharf|picante|piccante|chili\w*|chilli\w*|jalapeno|sambal)\b|🌶`)},
	{DietaryRaw, regexp.MustCompile(`\b(raw|rauw|cru|crudo|roh|tartare?|carpaccio|ceviche|sashimi)\b`)},
	{DietaryKeto, regexp.MustCompile(`\bketo\w*`)},
	{DietaryPaleo, regexp.MustCompile(`\bpaleo\b`)},
	{DietaryLowCarb, regexp.MustCompile(`low[- ]?carb|koolhydraatarm|\blchf\b`)},
}

// InferDietaryTags returns dietary tags found in text. Vegan wins over
// vegetarian; the remaining tags are independent.
func InferDietaryTags(text string) []DietaryTag {
	out := make([]DietaryTag, 0)
	if text == "" {
		return out
	}
	folded := fold(text)

	switch {
	case veganPattern.MatchString(folded):
		out = append(out, DietaryVegan)
	case vegetarianPattern.MatchString(folded):
		out = append(out, DietaryVegetarian)
	}

	for _, rule := range dietaryRules {
		if rule.pattern.MatchString(folded) {
			out = append(out, rule.tag)
		}
	}
	return out
}

func unionAllergens(a, b []Allergen) []Allergen {
	seen := make(map[Allergen]bool, len(a)+len(b))
	out := make([]Allergen, 0, len(a)+len(b))
	for _, v := range append(append([]Allergen{}, a...), b...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func unionDietary(a, b []DietaryTag) []DietaryTag {
	seen := make(map[DietaryTag]bool, len(a)+len(b))
	out := make([]DietaryTag, 0, len(a)+len(b))
	for _, v := range append(append([]DietaryTag{}, a...), b...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
