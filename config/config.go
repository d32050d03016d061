package config

import (
	"fmt"
	"os"
	"strconv"
)

// Run modes selected via RUN_MODE.
const (
	ModeInteractive = "interactive"
	ModeExport      = "export"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	DataPath        string
	StaticPath      string
	SiteTitle       string
	OMDbAPIKey      string
	OMDbBaseURL     string
	OMDbTimeoutSecs int
	RunMode         string
	RunAtStartup    bool
}

// Load reads configuration from environment variables, applying defaults and
// validation. The OMDb API key is deliberately not required here: the fetcher
// reports the missing credential per add attempt instead.
func Load() (Config, error) {
	cfg := Config{
		DataPath:        getEnv("DATA_PATH", "./data"),
		StaticPath:      getEnv("STATIC_PATH", "./static"),
		SiteTitle:       getEnv("SITE_TITLE", "My Movie App"),
		OMDbAPIKey:      os.Getenv("OMDB_API_KEY"),
		OMDbBaseURL:     getEnv("OMDB_BASE_URL", "http://www.omdbapi.com/"),
		OMDbTimeoutSecs: getEnvInt("OMDB_TIMEOUT_SECS", 10),
		RunMode:         getEnv("RUN_MODE", ModeInteractive),
		RunAtStartup:    os.Getenv("RUN_AT_STARTUP") == "true",
	}

	if cfg.OMDbTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("OMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.RunMode != ModeInteractive && cfg.RunMode != ModeExport {
		return Config{}, fmt.Errorf("RUN_MODE must be %q or %q", ModeInteractive, ModeExport)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
