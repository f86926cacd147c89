// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		// malformed .env
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags and Environment Variables

	-p             PORT            Server port (default: 3318)
	-b             STORE_BACKEND   memory, sqlite or postgres (default: memory)
	-d             DATABASE_URL    Database URL (required for postgres)
	-s             SURVEY_FILE     YAML survey definition
	-survey        SURVEY          Built-in survey: ordinal or boolean (default: ordinal)
	-policy        SCORING_POLICY  ordinal-sum, weighted-drag or boolean-count
	-cors-origins  CORS_ORIGINS    Comma-separated origins (default: *)
	-slug-salt     SLUG_SALT       Secret for share slug generation (required)

CLI flags take precedence over environment variables, and variables already
in the environment take precedence over the .env file.
*/
package cliparse
