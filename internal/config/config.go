package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"finreport/internal/model"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	DBDriver     string
	DatabaseDSN  string
	DatasetPath  string
	OutputDir    string
	CORSOrigins  string
	FactScenario model.Scenario
	FactFromYear int
	FactToYear   int
}

// Load reads configs/.env when present, then the environment.
func Load(envFile string) (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("No %s file found or error loading it", envFile)
	}

	scenario, err := model.ParseScenario(getEnv("FACT_SCENARIO", string(model.ScenarioNormal)))
	if err != nil {
		return nil, fmt.Errorf("FACT_SCENARIO: %w", err)
	}
	from, err := getEnvInt("FACT_FROM_YEAR", 2023)
	if err != nil {
		return nil, err
	}
	to, err := getEnvInt("FACT_TO_YEAR", 2027)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		DatasetPath:  os.Getenv("DATASET_PATH"),
		OutputDir:    getEnv("OUTPUT_DIR", "out"),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		FactScenario: scenario,
		FactFromYear: from,
		FactToYear:   to,
	}, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS, trimming blanks around each entry.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}
