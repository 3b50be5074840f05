package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort               = 3318
	DefaultAutosaveDelay      = 600 * time.Millisecond
	DefaultSessionIdleTimeout = 30 * time.Minute
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	SessionSalt        string
	AutosaveDelay      time.Duration
	StepsFile          string
	SessionIdleTimeout time.Duration
	PublicBaseURL      string
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("propose", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", "", "Public base URL used in share links")

	// Editing behaviour
	fs.DurationVar(&cfg.AutosaveDelay, "autosave", 0, "Quiet period before an autosave fires")
	fs.DurationVar(&cfg.SessionIdleTimeout, "idle", 0, "Idle time before an edit session is torn down")
	fs.StringVar(&cfg.StepsFile, "steps", "", "YAML file overriding the question steps")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Session token salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	var err error
	if cfg.AutosaveDelay, err = durationOrEnv(cfg.AutosaveDelay, "AUTOSAVE_DELAY", DefaultAutosaveDelay); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdleTimeout, err = durationOrEnv(cfg.SessionIdleTimeout, "SESSION_IDLE_TIMEOUT", DefaultSessionIdleTimeout); err != nil {
		return Config{}, err
	}

	if cfg.StepsFile == "" {
		cfg.StepsFile = os.Getenv("WIZARD_STEPS")
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = os.Getenv("PUBLIC_BASE_URL")
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	return cfg, nil
}

func durationOrEnv(flagValue time.Duration, env string, def time.Duration) (time.Duration, error) {
	if flagValue > 0 {
		return flagValue, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s env variable", env)
	}
	return d, nil
}
