package config

import (
	"errors"
	"path/filepath"
	"testing"

	"finreport/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_DSN", "DATASET_PATH", "OUTPUT_DIR", "CORS_ALLOWED_ORIGINS", "FACT_SCENARIO", "FACT_FROM_YEAR", "FACT_TO_YEAR"} {
		t.Setenv(k, "")
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" || cfg.DBDriver != "postgres" || cfg.OutputDir != "out" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.FactScenario != model.ScenarioNormal || cfg.FactFromYear != 2023 || cfg.FactToYear != 2027 {
		t.Errorf("fact defaults = %s %d-%d", cfg.FactScenario, cfg.FactFromYear, cfg.FactToYear)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FACT_SCENARIO", "Tax Holiday")
	t.Setenv("FACT_FROM_YEAR", "2024")
	t.Setenv("FACT_TO_YEAR", "2026")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9090" || cfg.FactScenario != model.ScenarioTaxHoliday || cfg.FactFromYear != 2024 || cfg.FactToYear != 2026 {
		t.Errorf("overrides = %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("FACT_SCENARIO", "Optimistic")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); !errors.Is(err, model.ErrUnknownScenario) {
		t.Errorf("bad scenario: error = %v", err)
	}

	t.Setenv("FACT_SCENARIO", "")
	t.Setenv("FACT_TO_YEAR", "twenty")
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("bad year: error = nil")
	}
}

func TestAllowedOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"http://localhost:5173", []string{"http://localhost:5173"}},
		{"http://a.test, http://b.test", []string{"http://a.test", "http://b.test"}},
		{" http://a.test ,, http://b.test ,", []string{"http://a.test", "http://b.test"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := (&Config{CORSOrigins: tt.raw}).AllowedOrigins()
		if len(got) != len(tt.want) {
			t.Errorf("AllowedOrigins(%q) = %q, want %q", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("AllowedOrigins(%q)[%d] = %q, want %q", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}
