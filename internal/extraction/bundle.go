package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	bundleLookahead     = 3
	minFollowingPrice   = 10.0
	maxPlausibleCourses = 12
)

// All patterns below run against folded text.
var (
	courseCountPattern = regexp.MustCompile(`\b(\d{1,2})\s*-?\s*(gangen|gangs?|gange|gangemenu|courses?|plats|services|portate|platos|tiempos)\b`)
	courseWordPattern  = regexp.MustCompile(`\b(two|twee|deux|zwei|dos|due|three|drie|trois|drei|tres|tre|four|vier|quatre|cuatro|quattro|five|vijf|cinq|funf|cinco|cinque)\s*-?\s*(gangen|gangs?|gange|courses?|course|plats|portate|platos|tiempos)\b`)

	prixFixePattern    = regexp.MustCompile(`prix[- ]fixe|fixed[- ]price|vaste prijs|menu fixe|festpreis|precio fijo|prezzo fisso`)
	lunchPattern       = regexp.MustCompile(`\blunch ?(special|menu|deal|formule|kaart)\b|\blunchmenu\b|business ?lunch|plat du jour|formule (du )?midi|mittags(menu|tisch)|menu del dia|menu del giorno|\bdagmenu\b|\bdagschotel\b`)
	comboPattern       = regexp.MustCompile(`\bcombo\b|\bset ?menu\b|\bmenu set\b|\bformule\b|\bmenu complet\b|\bmeal deal\b|\bcombinatie\b|\bkombi\w*|\bcombinado\b`)
	multiCoursePattern = regexp.MustCompile(`chef'?s (menu|tasting)|tasting menu|\bproeverij\b|degustation|degustazione|surprise ?menu|verrassingsmenu|keuzemenu|menu du chef|menu gastronomique|\bdiner ?menu\b|\bdinner ?menu\b`)
	drinksPattern      = regexp.MustCompile(`\bincl\.?\s*(\d+\s*/\s*\d+\s*)?\w*\s*(wine|wijn|huiswijn|drank|dranken|drinks?|beer|bier|tapbier|vin|boissons?|bebidas?|vino|bevande|getranke|wein)|inclusief (wijn|drank\w*|bier)|including (wine|drinks?|beer)|\bmet (huis)?(wijn|drank\w*|bier)\b|\bwith (wine|drinks?)\b|avec (vin|boissons?)|con (vino|bebidas?)|mit (wein|getranke)|wijnarrangement|wine pairing|drinks included|boissons? comprises?|bebida incluida`)
	perPersonPattern   = regexp.MustCompile(`\bp\.\s?p\b\.?|\bpp\b|\bp/p\b|per (persoon|person|pers)\b|pro person|por persona|par personne|a persona|per testa`)
	perTablePattern    = regexp.MustCompile(`per (tafel|table)|par table|por mesa|pro tisch`)

	drinkQuantityPattern = regexp.MustCompile(`(\d+\s*/\s*\d+|\d+(?:[.,]\d+)?)\s*(liters?|litres?|ltr|l|cl|ml|glazen|glas|glasses|glass|verres?|copas?|bicchieri)\b`)
	drinkOptionPattern   = regexp.MustCompile(`\b(huiswijn|house wine|wijn|wine|vin|wein|vino|tapbier|draught beer|draft beer|bier|beer|biere|cerveza|birra|frisdranken|frisdrank|soft ?drinks?|water|cava|prosecco|champagne|koffie|coffee|thee|tea)\b`)
)

var courseWords = map[string]int{
	"two": 2, "twee": 2, "deux": 2, "zwei": 2, "dos": 2, "due": 2,
	"three": 3, "drie": 3, "trois": 3, "drei": 3, "tres": 3, "tre": 3,
	"four": 4, "vier": 4, "quatre": 4, "cuatro": 4, "quattro": 4,
	"five": 5, "vijf": 5, "cinq": 5, "funf": 5, "cinco": 5, "cinque": 5,
}

// BundleSignal is what the keyword pass can tell from a piece of text alone.
type BundleSignal struct {
	Type      BundleType
	Courses   int
	PriceUnit PriceUnit
	HasDrinks bool
}

// courseCount extracts "3-gangen", "two course", ... from folded text.
func courseCount(folded string) int {
	if m := courseCountPattern.FindStringSubmatch(folded); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n <= maxPlausibleCourses {
			return n
		}
	}
	if m := courseWordPattern.FindStringSubmatch(folded); m != nil {
		return courseWords[m[1]]
	}
	return 0
}

func priceUnitOf(folded string) PriceUnit {
	switch {
	case perPersonPattern.MatchString(folded):
		return PricePerPerson
	case perTablePattern.MatchString(folded):
		return PricePerTable
	default:
		return PriceFixed
	}
}

// DetectBundleKeywords reports whether text names a set menu and, if so,
// which kind.
func DetectBundleKeywords(text string) (BundleSignal, bool) {
	folded := fold(text)
	if strings.TrimSpace(folded) == "" {
		return BundleSignal{}, false
	}

	sig := BundleSignal{
		Courses:   courseCount(folded),
		PriceUnit: priceUnitOf(folded),
		HasDrinks: drinksPattern.MatchString(folded),
	}

	switch {
	case lunchPattern.MatchString(folded):
		sig.Type = BundleLunchSpecial
	case prixFixePattern.MatchString(folded):
		sig.Type = BundlePrixFixe
	case comboPattern.MatchString(folded):
		sig.Type = BundleCombo
	case sig.Courses > 0 || multiCoursePattern.MatchString(folded):
		sig.Type = BundleMultiCourse
		if sig.HasDrinks {
			sig.Type = BundleDinnerWithDrinks
		}
	default:
		return BundleSignal{}, false
	}

	return sig, true
}

// extractIncludedDrinks pulls "1/2 liter" and the drink options out of a
// drinks phrase such as "incl. 1/2 liter huiswijn of tapbier".
func extractIncludedDrinks(line string) *IncludedDrinks {
	folded := fold(line)
	if !drinksPattern.MatchString(folded) {
		return nil
	}

	drinks := &IncludedDrinks{Options: []string{}}
	if m := drinkQuantityPattern.FindStringSubmatch(folded); m != nil {
		drinks.Quantity = strings.Join(strings.Fields(m[0]), " ")
	}

	seen := map[string]bool{}
	for _, opt := range drinkOptionPattern.FindAllString(folded, -1) {
		if !seen[opt] {
			seen[opt] = true
			drinks.Options = append(drinks.Options, opt)
		}
	}
	return drinks
}

func describeBundle(info *BundleInfo) string {
	var b strings.Builder
	if info.Courses > 0 {
		fmt.Fprintf(&b, "%d-course ", info.Courses)
	}
	switch info.Type {
	case BundlePrixFixe:
		b.WriteString("prix fixe menu")
	case BundleLunchSpecial:
		b.WriteString("lunch special")
	case BundleCombo:
		b.WriteString("combo")
	case BundleDinnerWithDrinks:
		b.WriteString("dinner with drinks")
	default:
		b.WriteString("menu")
	}
	if info.SharedPrice != nil {
		fmt.Fprintf(&b, " at %.2f", *info.SharedPrice)
	}
	switch info.PriceUnit {
	case PricePerPerson:
		b.WriteString(" per person")
	case PricePerTable:
		b.WriteString(" per table")
	}
	if d := info.IncludedDrinks; d != nil && len(d.Options) > 0 {
		b.WriteString(", includes ")
		if d.Quantity != "" {
			b.WriteString(d.Quantity + " ")
		}
		b.WriteString(strings.Join(d.Options, " or "))
	}
	return b.String()
}

// FindBundleInOCR builds bundle info for a section whose name signals a set
// menu. It returns nil when the section line is not in the OCR output or no
// plausible bundle price is found near it.
func FindBundleInOCR(sectionName string, lines []OCRLine) *BundleInfo {
	sig, ok := DetectBundleKeywords(sectionName)
	if !ok {
		return nil
	}

	idx := findLineIndex(sectionName, lines)
	if idx < 0 {
		if m := FindBestTextMatch(sectionName, lines); m != nil {
			idx = m.LineIndex
		}
	}
	if idx < 0 {
		return nil
	}

	end := idx + bundleLookahead
	if end >= len(lines) {
		end = len(lines) - 1
	}

	info := &BundleInfo{
		Type:      sig.Type,
		Courses:   sig.Courses,
		PriceUnit: sig.PriceUnit,
	}

	for i := idx; i <= end; i++ {
		folded := fold(lines[i].Text)
		if info.IncludedDrinks == nil {
			info.IncludedDrinks = extractIncludedDrinks(lines[i].Text)
		}
		if info.Courses == 0 {
			info.Courses = courseCount(folded)
		}
		if info.PriceUnit == PriceFixed {
			info.PriceUnit = priceUnitOf(folded)
		}
	}
	if info.IncludedDrinks != nil && info.Type == BundleMultiCourse {
		info.Type = BundleDinnerWithDrinks
	}

	// On the section line the bundle price is usually the last one; below it
	// small prices belong to items, not to the bundle.
	if prices := pricesIn(lines[idx].Text); len(prices) > 0 {
		info.SharedPrice = floatPtr(prices[len(prices)-1])
	} else {
		for i := idx + 1; i <= end && info.SharedPrice == nil; i++ {
			for _, p := range pricesIn(lines[i].Text) {
				if p > minFollowingPrice {
					info.SharedPrice = floatPtr(p)
					break
				}
			}
		}
	}
	if info.SharedPrice == nil {
		return nil
	}

	info.Description = describeBundle(info)
	return info
}
