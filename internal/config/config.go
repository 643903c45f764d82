// Package config provides configuration loading for the pitch kit service.
// Values come from the environment; main loads a .env file first via
// godotenv so local runs work without exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all tunable settings. Read once per call site via FromEnv;
// nothing here is hardcoded into the pipeline.
type Config struct {
	// Generation providers
	GeminiAPIKey string // primary structured-output provider
	GeminiModel  string
	OpenAIAPIKey string // secondary general-purpose provider
	OpenAIModel  string

	// Knowledge lookup / news index (Google Custom Search)
	SearchAPIKey string
	SearchCX     string

	// Feature flags
	UseBrowser bool // enable headless-render fallback for thin pages

	// Persistence
	DatabaseURL string // optional Postgres; when empty a SQLite file is used
	DataDir     string // directory for the SQLite store

	// Timeouts
	ProbeTimeout    time.Duration // existence checks (HEAD/GET)
	FetchTimeout    time.Duration // stage A page fetches
	RenderTimeout   time.Duration // stage B browser renders
	SearchTimeout   time.Duration // external index queries
	GenerateTimeout time.Duration // one generation provider call

	// Demo pacing: minimum visible duration per pipeline step, for UIs
	// that animate progress. Zero disables pacing.
	StepPacing time.Duration
}

// FromEnv builds a Config from the current environment with defaults
// applied for everything optional.
func FromEnv() *Config {
	return &Config{
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4o-mini"),
		SearchAPIKey:    os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchCX:        os.Getenv("GOOGLE_SEARCH_CX"),
		UseBrowser:      envBool("USE_BROWSER", false),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataDir:         envOr("PITCHKIT_DATA_DIR", "data"),
		ProbeTimeout:    envDuration("PROBE_TIMEOUT", 4*time.Second),
		FetchTimeout:    envDuration("FETCH_TIMEOUT", 8*time.Second),
		RenderTimeout:   envDuration("RENDER_TIMEOUT", 25*time.Second),
		SearchTimeout:   envDuration("SEARCH_TIMEOUT", 6*time.Second),
		GenerateTimeout: envDuration("GENERATE_TIMEOUT", 60*time.Second),
		StepPacing:      envDuration("STEP_PACING", 0),
	}
}

// Validate checks ranges; missing credentials are allowed because every
// external dependency degrades gracefully.
func (c *Config) Validate() error {
	if c.ProbeTimeout <= 0 || c.FetchTimeout <= 0 || c.GenerateTimeout <= 0 {
		return fmt.Errorf("config error: timeouts must be positive")
	}
	if c.DataDir == "" && c.DatabaseURL == "" {
		return fmt.Errorf("config error: either PITCHKIT_DATA_DIR or DATABASE_URL must be set")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
