package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultModelPaths is the ordered list of artifact locations tried at startup.
var DefaultModelPaths = []string{
	"best_salary_model.json",
	"models/best_salary_model.json",
	"best_model.json",
}

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
	DatabaseURL     string
	Env             string

	ModelPaths        []string
	ModelEndpoint     string
	ModelClientID     string
	ModelClientSecret string
	ModelTokenURL     string

	MarketAPIKey  string
	MarketURL     string
	MarketTimeout time.Duration

	PDFExtractor string
	TabulaJar    string

	BatchEventsQueueURL string
	BatchRatePerMinute  int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is empty in production; batch runs will not survive restarts")
	}

	modelPaths := splitAndTrim(getEnv("MODEL_PATHS", ""))
	if len(modelPaths) == 0 {
		modelPaths = append([]string(nil), DefaultModelPaths...)
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
		DatabaseURL:     dbURL,
		Env:             env,

		ModelPaths:        modelPaths,
		ModelEndpoint:     getEnv("MODEL_ENDPOINT", ""),
		ModelClientID:     getEnv("MODEL_CLIENT_ID", ""),
		ModelClientSecret: getEnv("MODEL_CLIENT_SECRET", ""),
		ModelTokenURL:     getEnv("MODEL_TOKEN_URL", ""),

		MarketAPIKey:  getEnv("ALPHA_VANTAGE_API_KEY", ""),
		MarketURL:     getEnv("ALPHA_VANTAGE_URL", "https://www.alphavantage.co/query"),
		MarketTimeout: time.Duration(getEnvInt("MARKET_TIMEOUT_SECONDS", 10)) * time.Second,

		PDFExtractor: normalizeExtractor(getEnv("PDF_EXTRACTOR", "native")),
		TabulaJar:    getEnv("TABULA_JAR", ""),

		BatchEventsQueueURL: getEnv("BATCH_EVENTS_QUEUE_URL", ""),
		BatchRatePerMinute:  getEnvInt("BATCH_RATE_PER_MINUTE", 12),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeExtractor(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "tabula":
		return "tabula"
	default:
		return "native"
	}
}
