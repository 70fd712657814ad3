package llm

import "github.com/google/generative-ai-go/genai"

// Wire shapes returned by the model. Every optional field is a pointer so a
// JSON null survives decoding and can be normalized explicitly.

type analyzedItem struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Confidence  *float64 `json:"confidence"`
}

type analyzedSection struct {
	Name       string         `json:"name"`
	Confidence *float64       `json:"confidence"`
	Items      []analyzedItem `json:"items"`
}

type analysisResponse struct {
	Sections []analyzedSection `json:"sections"`
	Language *string           `json:"language"`
	Currency *string           `json:"currency"`
	MenuType *string           `json:"menuType"`
}

var itemSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString, Description: "Item name exactly as printed"},
		"price":       {Type: genai.TypeNumber, Nullable: true, Description: "Price as printed, null when unreadable, 0 only when explicitly free"},
		"description": {Type: genai.TypeString, Nullable: true},
		"confidence":  {Type: genai.TypeNumber, Description: "0-100"},
	},
	Required: []string{"name", "price", "confidence"},
}

var sectionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":       {Type: genai.TypeString},
		"confidence": {Type: genai.TypeNumber, Description: "0-100"},
		"items":      {Type: genai.TypeArray, Items: itemSchema},
	},
	Required: []string{"name", "confidence", "items"},
}

// analysisSchema is the structured-output contract for both passes.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"sections": {Type: genai.TypeArray, Items: sectionSchema},
		"language": {Type: genai.TypeString, Description: "ISO 639-1 code"},
		"currency": {Type: genai.TypeString, Description: "ISO 4217 code"},
		"menuType": {
			Type:     genai.TypeString,
			Nullable: true,
			Enum:     []string{"a-la-carte", "set-menu", "buffet", "drinks", "mixed"},
		},
	},
	Required: []string{"sections", "language", "currency"},
}
