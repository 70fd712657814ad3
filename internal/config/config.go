package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
	"github.com/Remedy92/Culi-sub000/internal/storage"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	CORSOrigins []string

	GeminiAPIKey       string
	GeminiModel        string
	TesseractLanguages []string

	R2 storage.R2Config

	KafkaBrokers []string
	KafkaTopic   string

	Merge                  extraction.Options
	EnhanceBelowConfidence float64
	OCRTimeout             time.Duration
	AITimeout              time.Duration
	EnhanceTimeout         time.Duration
	WorkerInterval         time.Duration
}

func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("TESSERACT_LANGUAGES", "eng,nld,fra,deu,spa,ita")
	v.SetDefault("KAFKA_TOPIC", "menu.extracted")
	v.SetDefault("LOW_OCR_CONFIDENCE", 70)
	v.SetDefault("LOW_ITEM_CONFIDENCE", 60)
	v.SetDefault("IMPLIED_BUNDLE_SECTION_CONFIDENCE", 60)
	v.SetDefault("IMPLIED_BUNDLE_ITEM_CONFIDENCE", 60)
	v.SetDefault("ENHANCE_BELOW_CONFIDENCE", 70)
	v.SetDefault("OCR_TIMEOUT", "45s")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("ENHANCE_TIMEOUT", "90s")
	v.SetDefault("WORKER_INTERVAL", "2s")
}

// Load reads configuration from the environment, loading .env first outside
// production. Every missing required variable is reported in one error.
func Load(required ...string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if v.GetString("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var missing []string
	for _, k := range required {
		if strings.TrimSpace(v.GetString(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing env vars: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		AppEnv:      v.GetString("APP_ENV"),
		Port:        v.GetString("PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

		GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
		GeminiModel:        v.GetString("GEMINI_MODEL"),
		TesseractLanguages: splitList(v.GetString("TESSERACT_LANGUAGES")),

		R2: storage.R2Config{
			Endpoint:      v.GetString("R2_ENDPOINT"),
			AccessKey:     v.GetString("R2_ACCESS_KEY"),
			SecretKey:     v.GetString("R2_SECRET_KEY"),
			Bucket:        v.GetString("R2_BUCKET_NAME"),
			PublicBaseURL: v.GetString("R2_PUBLIC_BASE_URL"),
		},

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),

		Merge: extraction.Options{
			LowOCRConfidence:               v.GetFloat64("LOW_OCR_CONFIDENCE"),
			LowItemConfidence:              v.GetFloat64("LOW_ITEM_CONFIDENCE"),
			ImpliedBundleSectionConfidence: v.GetFloat64("IMPLIED_BUNDLE_SECTION_CONFIDENCE"),
			ImpliedBundleItemConfidence:    v.GetFloat64("IMPLIED_BUNDLE_ITEM_CONFIDENCE"),
			Model:                          v.GetString("GEMINI_MODEL"),
		},
		EnhanceBelowConfidence: v.GetFloat64("ENHANCE_BELOW_CONFIDENCE"),
		OCRTimeout:             v.GetDuration("OCR_TIMEOUT"),
		AITimeout:              v.GetDuration("AI_TIMEOUT"),
		EnhanceTimeout:         v.GetDuration("ENHANCE_TIMEOUT"),
		WorkerInterval:         v.GetDuration("WORKER_INTERVAL"),
	}
	return cfg, nil
}

// NewLogger builds a JSON logger in production and a console logger
// everywhere else.
func NewLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
