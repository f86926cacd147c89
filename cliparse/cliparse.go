// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/peerscreen/scoring"
	"github.com/danielhkuo/peerscreen/survey"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type Config struct {
	Port          int
	StoreBackend  string
	DatabaseURL   string
	SlugSalt      string
	SurveyFile    string
	SurveyName    string
	ScoringPolicy string
	CORSOrigins   []string
}

// LoadEnvFile loads variables from path (usually .env) without overriding
// ones already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var origins string

	fset := flag.NewFlagSet("peerscreen", flag.ContinueOnError)

	fset.IntVar(&cfg.Port, "p", 0, "Server port")
	fset.StringVar(&cfg.StoreBackend, "b", "", "Store backend (memory, sqlite or postgres)")
	fset.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	fset.StringVar(&cfg.SurveyFile, "s", "", "Survey definition file (YAML)")
	fset.StringVar(&cfg.SurveyName, "survey", "", "Built-in survey (ordinal or boolean)")
	fset.StringVar(&cfg.ScoringPolicy, "policy", "", "Scoring policy (defaults to the survey's own)")
	fset.StringVar(&origins, "cors-origins", "", "Comma-separated allowed origins")

	// Secrets (prefer env variables, but allow CLI for dev)
	fset.StringVar(&cfg.SlugSalt, "slug-salt", "", "Run slug salt (prefer env)")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318
		}
	}

	cfg.StoreBackend = fallback(cfg.StoreBackend, "STORE_BACKEND", BackendMemory)
	switch cfg.StoreBackend {
	case BackendMemory, BackendSQLite, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", "")
	if cfg.StoreBackend == BackendPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
	}

	cfg.SurveyFile = fallback(cfg.SurveyFile, "SURVEY_FILE", "")
	cfg.SurveyName = fallback(cfg.SurveyName, "SURVEY", "ordinal")

	// Without a policy the survey picks its own. A survey file is only read
	// at startup, so its pairing is checked there.
	cfg.ScoringPolicy = fallback(cfg.ScoringPolicy, "SCORING_POLICY", "")
	if cfg.SurveyFile == "" {
		model, err := survey.ByName(cfg.SurveyName)
		if err != nil {
			return Config{}, err
		}
		policy, err := scoring.Resolve(cfg.ScoringPolicy, model)
		if err != nil {
			return Config{}, err
		}
		cfg.ScoringPolicy = policy.Name()
	} else if cfg.ScoringPolicy != "" {
		if _, err := scoring.PolicyByName(cfg.ScoringPolicy); err != nil {
			return Config{}, err
		}
	}

	cfg.CORSOrigins = splitList(fallback(origins, "CORS_ORIGINS", "*"))

	// Secrets - MUST be provided
	cfg.SlugSalt = fallback(cfg.SlugSalt, "SLUG_SALT", "")
	if cfg.SlugSalt == "" {
		return Config{}, errors.New("SLUG_SALT required")
	}

	return cfg, nil
}

func fallback(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
