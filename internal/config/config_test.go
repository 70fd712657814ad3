package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/menus")

	cfg, err := Load("DATABASE_URL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" || !cfg.Production() {
		t.Fatalf("unexpected port/env %q/%q", cfg.Port, cfg.AppEnv)
	}
	if cfg.Merge.LowOCRConfidence != 70 || cfg.Merge.ImpliedBundleSectionConfidence != 60 {
		t.Fatalf("unexpected merge thresholds %+v", cfg.Merge)
	}
	if cfg.OCRTimeout != 45*time.Second || cfg.WorkerInterval != 2*time.Second {
		t.Fatalf("unexpected timeouts %v %v", cfg.OCRTimeout, cfg.WorkerInterval)
	}
	if diff := cmp.Diff([]string{"eng", "nld", "fra", "deu", "spa", "ita"}, cfg.TesseractLanguages); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
	if cfg.R2.Configured() {
		t.Fatal("R2 must not be configured without credentials")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOW_OCR_CONFIDENCE", "55")
	t.Setenv("AI_TIMEOUT", "2m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Merge.LowOCRConfidence != 55 {
		t.Fatalf("expected 55, got %v", cfg.Merge.LowOCRConfidence)
	}
	if cfg.AITimeout != 2*time.Minute {
		t.Fatalf("expected 2m, got %v", cfg.AITimeout)
	}
	if diff := cmp.Diff([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers); diff != "" {
		t.Fatalf("brokers mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ReportsAllMissing(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load("JWT_SECRET", "DATABASE_URL")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected both keys in %q", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(env)
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", env, err)
		}
		_ = logger.Sync()
	}
}
