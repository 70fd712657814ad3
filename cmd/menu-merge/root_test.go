package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

const ocrYAML = `
text: "STARTERS\nTomato soup 6.50"
confidence: 85
language: en
lines:
  - text: STARTERS
    confidence: 90
    boundingBox: {x: 0, y: 0, width: 200, height: 30}
  - text: Tomato soup 6.50
    confidence: 82
    boundingBox: {x: 0, y: 40, width: 200, height: 18}
`

const aiJSON = `{
  "sections": [
    {"name": "Starters", "confidence": 88, "items": [
      {"name": "Tomato soup", "price": 6.5, "description": "With basil cream", "confidence": 84}
    ]}
  ],
  "language": "en",
  "currency": "EUR"
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestMenuMerge_PrintsMergedMenu(t *testing.T) {
	dir := t.TempDir()
	ocr := writeFile(t, dir, "ocr.yaml", ocrYAML)
	ai := writeFile(t, dir, "ai.json", aiJSON)

	out, err := execute(t, "--ocr", ocr, "--ai", ai, "--pretty", "--model", "recorded")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "\n  \"sections\"") {
		t.Fatalf("expected indented output, got:\n%s", out)
	}

	var menu extraction.ExtractedMenu
	if err := json.Unmarshal([]byte(out), &menu); err != nil {
		t.Fatal(err)
	}
	if len(menu.Items) != 1 || menu.Items[0].Name != "Tomato soup" {
		t.Fatalf("unexpected items %+v", menu.Items)
	}
	if menu.Metadata.Model != "recorded" || menu.Metadata.Currency != "EUR" {
		t.Fatalf("unexpected metadata %+v", menu.Metadata)
	}
	if menu.Items[0].BoundingBox == nil {
		t.Fatal("expected the OCR bounding box on the item")
	}
}

func TestMenuMerge_ConfigFileThreshold(t *testing.T) {
	dir := t.TempDir()
	ocr := writeFile(t, dir, "ocr.yaml", ocrYAML)
	ai := writeFile(t, dir, "ai.json", aiJSON)
	cfg := writeFile(t, dir, "cfg.yaml", "low-ocr-confidence: 90\n")

	out, err := execute(t, "--ocr", ocr, "--ai", ai, "--config", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Low OCR confidence (85%)") {
		t.Fatalf("expected low OCR warning from config threshold, got:\n%s", out)
	}

	out, err = execute(t, "--ocr", ocr, "--ai", ai, "--config", cfg, "--low-ocr-confidence", "50")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Low OCR confidence") {
		t.Fatalf("flag must override config file, got:\n%s", out)
	}
}

func TestMenuMerge_Enhancement(t *testing.T) {
	dir := t.TempDir()
	ocr := writeFile(t, dir, "ocr.yaml", "text: \"\"\nconfidence: 0\nlines: []\n")
	ai := writeFile(t, dir, "ai.yaml", `
sections:
  - name: Mains
    confidence: 70
    items:
      - name: Fish pie
        price: null
        description: ""
        confidence: 40
currency: GBP
`)
	enh := writeFile(t, dir, "enh.yaml", `
sections:
  - name: Mains
    confidence: 95
    items:
      - name: Fish pie
        price: 16
        description: Cod, prawns and mash
        confidence: 93
`)

	out, err := execute(t, "--ocr", ocr, "--ai", ai, "--enhancement", enh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var menu extraction.ExtractedMenu
	if err := json.Unmarshal([]byte(out), &menu); err != nil {
		t.Fatal(err)
	}
	item := menu.Items[0]
	if item.Price == nil || *item.Price != 16 || item.Confidence != 93 {
		t.Fatalf("enhancement not applied: %+v", item)
	}
}

func TestMenuMerge_Errors(t *testing.T) {
	dir := t.TempDir()
	ai := writeFile(t, dir, "ai.json", aiJSON)
	broken := writeFile(t, dir, "broken.json", "{not json")

	if _, err := execute(t, "--ai", ai); err == nil {
		t.Fatal("expected an error without --ocr")
	}
	if _, err := execute(t, "--ocr", filepath.Join(dir, "missing.yaml"), "--ai", ai); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := execute(t, "--ocr", broken, "--ai", ai); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected a parse error, got %v", err)
	}
}
