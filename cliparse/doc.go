// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string or SQLite path (required)
  - DatabaseType: sqlite (default) or postgres
  - SessionSalt: Secret that signs bearer session tokens (required)
  - AutosaveDelay: Quiet period before a draft is saved (default: 600ms)
  - SessionIdleTimeout: Idle edit sessions are torn down after this (default: 30m)
  - StepsFile: Optional YAML file replacing the built-in question steps
  - PublicBaseURL: Prefix for share URLs (default: http://localhost:<port>)

# CLI Flags

	-p             Server port
	-d             Database URL
	-t             Database type
	--session-salt Session token salt
	--autosave     Autosave quiet period (e.g. 600ms)
	--idle         Edit session idle timeout (e.g. 30m)
	--steps        Question steps YAML
	--base-url     Public base URL

# Environment Variables

Flags fall back to environment variables:

	PORT                 → -p
	DATABASE_URL         → -d
	DATABASE_TYPE        → -t
	SESSION_SALT         → --session-salt
	AUTOSAVE_DELAY       → --autosave
	SESSION_IDLE_TIMEOUT → --idle
	WIZARD_STEPS         → --steps
	PUBLIC_BASE_URL      → --base-url

CLI flags take precedence over environment variables. main loads a .env
file before parsing, so any of these may live there too.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - SESSION_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - durations must parse with time.ParseDuration
*/
package cliparse
