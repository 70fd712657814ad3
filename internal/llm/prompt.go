package llm

import "strings"

const quickAnalysisInstruction = `You are a menu digitization engine.

Read the restaurant menu in the image and return its sections and items.

Rules:
- Keep sections and items in the order they are printed.
- Copy names exactly as printed, including accents. Do not translate.
- price: the number printed for the item. Use null when no price is printed
  or it cannot be read. Use 0 only when the item is explicitly free.
- description: the text printed under or next to the item, or null.
- confidence: 0-100, how sure you are the item and its price were read correctly.
- A set menu ("3-gangen menu", "lunch special", "prix fixe") is its own section;
  list its price as an item named after the set menu and its dishes as items
  without a price.
- language: ISO 639-1 code of the menu text. currency: ISO 4217 code.
- Output ONLY JSON matching the response schema. No markdown, no comments.`

const enhancementInstruction = `You are a menu digitization engine doing a careful second read.

Look closely at the image and re-read ONLY the items listed below. For each
one, return its exact name, price, description and your confidence (0-100),
grouped under the section it is printed in. Skip items you cannot find.
Never invent items. Use null for anything you cannot read.
Output ONLY JSON matching the response schema.

Items to verify:
`

func BuildQuickAnalysisPrompt() string {
	return quickAnalysisInstruction
}

func BuildEnhancementPrompt(itemNames []string) string {
	var b strings.Builder
	b.WriteString(enhancementInstruction)
	for _, name := range itemNames {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}
