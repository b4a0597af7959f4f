package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"MODEL_PATHS", "PDF_EXTRACTOR", "MARKET_TIMEOUT_SECONDS", "OBJECT_STORE", "ENV"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if !reflect.DeepEqual(cfg.ModelPaths, DefaultModelPaths) {
		t.Fatalf("ModelPaths = %v, want %v", cfg.ModelPaths, DefaultModelPaths)
	}
	if cfg.MarketTimeout != 10*time.Second {
		t.Fatalf("MarketTimeout = %s, want 10s", cfg.MarketTimeout)
	}
	if cfg.PDFExtractor != "native" {
		t.Fatalf("PDFExtractor = %q, want native", cfg.PDFExtractor)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("ObjectStoreType = %q, want local", cfg.ObjectStoreType)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MODEL_PATHS", " a.json , ,b.yaml")
	t.Setenv("PDF_EXTRACTOR", "Tabula")
	t.Setenv("MARKET_TIMEOUT_SECONDS", "3")
	t.Setenv("ENV", "prod")

	cfg := Load()

	if want := []string{"a.json", "b.yaml"}; !reflect.DeepEqual(cfg.ModelPaths, want) {
		t.Fatalf("ModelPaths = %v, want %v", cfg.ModelPaths, want)
	}
	if cfg.PDFExtractor != "tabula" {
		t.Fatalf("PDFExtractor = %q, want tabula", cfg.PDFExtractor)
	}
	if cfg.MarketTimeout != 3*time.Second {
		t.Fatalf("MarketTimeout = %s, want 3s", cfg.MarketTimeout)
	}
	if cfg.Env != "production" {
		t.Fatalf("Env = %q, want production", cfg.Env)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("ALPHA_VANTAGE_API_KEY=\"from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("ALPHA_VANTAGE_API_KEY", "")
	os.Unsetenv("ALPHA_VANTAGE_API_KEY")

	cfg := Load()
	if cfg.MarketAPIKey != "from-file" {
		t.Fatalf("MarketAPIKey = %q, want from-file", cfg.MarketAPIKey)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
