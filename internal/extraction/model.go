package extraction

// BoundingBox is the pixel rectangle of an OCR line.
type BoundingBox struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// OCRLine is one recognized line of text, in reading order.
type OCRLine struct {
	Text        string      `json:"text" yaml:"text"`
	BoundingBox BoundingBox `json:"boundingBox" yaml:"boundingBox"`
	Confidence  float64     `json:"confidence" yaml:"confidence"`
	IsHeader    *bool       `json:"isHeader,omitempty" yaml:"isHeader,omitempty"`
	FontSize    *float64    `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
}

// OCRResult is the raw output of the text recognition engine.
type OCRResult struct {
	Text       string    `json:"text" yaml:"text"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Lines      []OCRLine `json:"lines" yaml:"lines"`
	Language   string    `json:"language" yaml:"language"`
}

// AIItem is an item as reported by the vision model.
// Price nil means the model could not read one; 0 means explicitly free.
type AIItem struct {
	Name        string   `json:"name" yaml:"name"`
	Price       *float64 `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
}

type AISection struct {
	Name       string   `json:"name" yaml:"name"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
	Items      []AIItem `json:"items" yaml:"items"`
}

// QuickAnalysisResult is the raw output of the AI vision pass.
type QuickAnalysisResult struct {
	Sections []AISection `json:"sections" yaml:"sections"`
	Language string      `json:"language" yaml:"language"`
	Currency string      `json:"currency" yaml:"currency"`
	MenuType *string     `json:"menuType,omitempty" yaml:"menuType,omitempty"`
}

type Allergen string

const (
	AllergenGluten    Allergen = "gluten"
	AllergenDairy     Allergen = "dairy"
	AllergenEggs      Allergen = "eggs"
	AllergenFish      Allergen = "fish"
	AllergenShellfish Allergen = "shellfish"
	AllergenMolluscs  Allergen = "molluscs"
	AllergenNuts      Allergen = "nuts"
	AllergenPeanuts   Allergen = "peanuts"
	AllergenSoy       Allergen = "soy"
	AllergenSesame    Allergen = "sesame"
	AllergenCelery    Allergen = "celery"
	AllergenMustard   Allergen = "mustard"
	AllergenSulfites  Allergen = "sulfites"
	AllergenLupin     Allergen = "lupin"
)

type DietaryTag string

const (
	DietaryVegetarian DietaryTag = "vegetarian"
	DietaryVegan      DietaryTag = "vegan"
	DietaryGlutenFree DietaryTag = "gluten-free"
	DietaryDairyFree  DietaryTag = "dairy-free"
	DietaryNutFree    DietaryTag = "nut-free"
	DietaryHalal      DietaryTag = "halal"
	DietaryKosher     DietaryTag = "kosher"
	DietaryOrganic    DietaryTag = "organic"
	DietarySpicy      DietaryTag = "spicy"
	DietaryRaw        DietaryTag = "raw"
	DietaryKeto       DietaryTag = "keto"
	DietaryPaleo      DietaryTag = "paleo"
	DietaryLowCarb    DietaryTag = "low-carb"
)

type ChoiceGroup string

const (
	ChoiceStarter   ChoiceGroup = "starter"
	ChoiceAppetizer ChoiceGroup = "appetizer"
	ChoiceMain      ChoiceGroup = "main"
	ChoiceDessert   ChoiceGroup = "dessert"
	ChoiceSide      ChoiceGroup = "side"
	ChoiceDrink     ChoiceGroup = "drink"
)

type BundleType string

const (
	BundlePrixFixe         BundleType = "prix-fixe"
	BundleMultiCourse      BundleType = "multi-course"
	BundleCombo            BundleType = "combo"
	BundleLunchSpecial     BundleType = "lunch-special"
	BundleDinnerWithDrinks BundleType = "dinner-with-drinks"
)

type PriceUnit string

const (
	PricePerPerson PriceUnit = "per-person"
	PricePerTable  PriceUnit = "per-table"
	PriceFixed     PriceUnit = "fixed"
)

// MenuItem is the canonical extracted item.
// Price nil means market price, or a bundle component without its own price.
type MenuItem struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Price          *float64     `json:"price"`
	Description    string       `json:"description,omitempty"`
	Allergens      []Allergen   `json:"allergens"`
	Dietary        []DietaryTag `json:"dietary"`
	Confidence     float64      `json:"confidence"`
	BoundingBox    *BoundingBox `json:"boundingBox,omitempty"`
	Category       string       `json:"category,omitempty"`
	Available      bool         `json:"available"`
	IsPartOfBundle bool         `json:"isPartOfBundle"`
	BundleID       string       `json:"bundleId,omitempty"`
	ChoiceGroup    ChoiceGroup  `json:"choiceGroup,omitempty"`
}

type IncludedDrinks struct {
	Options  []string `json:"options"`
	Quantity string   `json:"quantity,omitempty"`
}

// BundleChoices partitions bundle items by course. Starters, Mains and
// Desserts are always present; Sides and Drinks only when non-empty.
type BundleChoices struct {
	Starters []MenuItem `json:"starters"`
	Mains    []MenuItem `json:"mains"`
	Desserts []MenuItem `json:"desserts"`
	Sides    []MenuItem `json:"sides,omitempty"`
	Drinks   []MenuItem `json:"drinks,omitempty"`
}

type BundleInfo struct {
	Type           BundleType      `json:"type"`
	Courses        int             `json:"courses"`
	SharedPrice    *float64        `json:"sharedPrice"`
	PriceUnit      PriceUnit       `json:"priceUnit"`
	Description    string          `json:"description"`
	IncludedDrinks *IncludedDrinks `json:"includedDrinks,omitempty"`
	Choices        *BundleChoices  `json:"choices,omitempty"`
}

// MenuSection owns its items.
type MenuSection struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	Confidence   float64     `json:"confidence"`
	Items        []MenuItem  `json:"items"`
	DisplayOrder int         `json:"displayOrder"`
	BundleInfo   *BundleInfo `json:"bundleInfo,omitempty"`
}

type Metadata struct {
	ExtractionMethod string   `json:"extractionMethod"`
	ProcessingTimeMs int64    `json:"processingTimeMs"`
	Model            string   `json:"model"`
	OCRConfidence    float64  `json:"ocrConfidence"`
	Language         string   `json:"language"`
	Currency         string   `json:"currency"`
	MenuType         string   `json:"menuType,omitempty"`
	Warnings         []string `json:"warnings"`
}

// ExtractedMenu is the merge output. Items is a read view over Sections and
// is always rebuilt from them, never edited on its own.
type ExtractedMenu struct {
	Sections   []MenuSection `json:"sections"`
	Items      []MenuItem    `json:"items"`
	Confidence float64       `json:"confidence"`
	Metadata   Metadata      `json:"metadata"`
	RawText    string        `json:"rawText"`
}

// Flatten returns every section item in section order.
func (m *ExtractedMenu) Flatten() []MenuItem {
	items := make([]MenuItem, 0)
	for _, s := range m.Sections {
		items = append(items, s.Items...)
	}
	return items
}

var allAllergens = map[Allergen]bool{
	AllergenGluten: true, AllergenDairy: true, AllergenEggs: true, AllergenFish: true,
	AllergenShellfish: true, AllergenMolluscs: true, AllergenNuts: true, AllergenPeanuts: true,
	AllergenSoy: true, AllergenSesame: true, AllergenCelery: true, AllergenMustard: true,
	AllergenSulfites: true, AllergenLupin: true,
}

var allDietaryTags = map[DietaryTag]bool{
	DietaryVegetarian: true, DietaryVegan: true, DietaryGlutenFree: true, DietaryDairyFree: true,
	DietaryNutFree: true, DietaryHalal: true, DietaryKosher: true, DietaryOrganic: true,
	DietarySpicy: true, DietaryRaw: true, DietaryKeto: true, DietaryPaleo: true,
	DietaryLowCarb: true,
}

var allChoiceGroups = map[ChoiceGroup]bool{
	ChoiceStarter: true, ChoiceAppetizer: true, ChoiceMain: true,
	ChoiceDessert: true, ChoiceSide: true, ChoiceDrink: true,
}

func floatPtr(v float64) *float64 { return &v }
