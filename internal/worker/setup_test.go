package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/config"
	"github.com/Remedy92/Culi-sub000/internal/events"
	"github.com/Remedy92/Culi-sub000/internal/extraction"
	"github.com/Remedy92/Culi-sub000/internal/menu"
	"github.com/Remedy92/Culi-sub000/internal/storage"
)

func TestNewFromConfig_LocalDefaults(t *testing.T) {
	cfg := &config.Config{
		AppEnv:                 "development",
		GeminiModel:            "gemini-1.5-pro",
		Merge:                  extraction.DefaultOptions(),
		EnhanceBelowConfidence: 65,
		OCRTimeout:             time.Second,
		AITimeout:              2 * time.Second,
		EnhanceTimeout:         3 * time.Second,
	}

	c, err := NewFromConfig(context.Background(), cfg, menu.NewInMemoryRepository(), zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if _, ok := c.Objects.(*storage.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", c.Objects)
	}
	if _, ok := c.Publisher.(events.NopPublisher); !ok {
		t.Fatalf("expected nop publisher, got %T", c.Publisher)
	}
	if c.Service.opts.EnhanceBelowConfidence != 65 || c.Service.opts.AITimeout != 2*time.Second {
		t.Fatalf("options not taken from config: %+v", c.Service.opts)
	}
	if c.Service.ai.Model() != "gemini-1.5-pro" {
		t.Fatalf("unexpected model %q", c.Service.ai.Model())
	}
}

func TestNewObjectStore_ProductionNeedsR2(t *testing.T) {
	cfg := &config.Config{AppEnv: "production"}
	if _, err := NewObjectStore(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected an error without R2 in production")
	}
}
