// Package config reads runtime settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	Provider          string
	Model             string
	ModelBaseURL      string
	ModelTimeout      time.Duration
	MaxTokens         int
	Browser           string
	FetchTimeout      time.Duration
	FetchSettle       time.Duration
	ViewportWidth     int
	ViewportHeight    int
	ProfileDir        string
	MaxChunkSize      int
	SnapshotDir       string
	ThumbnailWidth    int
	ClassifyPrompt    string
	LocatePrompt      string
	ScriptPrompt      string
	MissingPrompt     string
	AlternativePrompt string
	LogLevel          string
}

// LoadEnv loads .env files into the process environment, ignoring missing files
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func Load() Config {
	return Config{
		HTTPAddr:          envOrDefault("ELEMENTSCOUT_HTTP_ADDR", ":5001"),
		ReadTimeout:       durationOrDefault("ELEMENTSCOUT_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      durationOrDefault("ELEMENTSCOUT_WRITE_TIMEOUT", 10*time.Minute),
		Provider:          envOrDefault("ELEMENTSCOUT_DEFAULT_PROVIDER", "claude"),
		Model:             os.Getenv("ELEMENTSCOUT_MODEL"),
		ModelBaseURL:      os.Getenv("ELEMENTSCOUT_MODEL_BASE_URL"),
		ModelTimeout:      durationOrDefault("ELEMENTSCOUT_MODEL_TIMEOUT", 2*time.Minute),
		MaxTokens:         intOrDefault("ELEMENTSCOUT_MAX_TOKENS", 1024),
		Browser:           envOrDefault("ELEMENTSCOUT_BROWSER", "rod"),
		FetchTimeout:      durationOrDefault("ELEMENTSCOUT_FETCH_TIMEOUT", 30*time.Second),
		FetchSettle:       durationOrDefault("ELEMENTSCOUT_FETCH_SETTLE", 500*time.Millisecond),
		ViewportWidth:     intOrDefault("ELEMENTSCOUT_VIEWPORT_WIDTH", 1280),
		ViewportHeight:    intOrDefault("ELEMENTSCOUT_VIEWPORT_HEIGHT", 720),
		ProfileDir:        os.Getenv("ELEMENTSCOUT_PROFILE_DIR"),
		MaxChunkSize:      intOrDefault("ELEMENTSCOUT_MAX_CHUNK_SIZE", 1000),
		SnapshotDir:       envOrDefault("ELEMENTSCOUT_SNAPSHOT_DIR", "snapshots"),
		ThumbnailWidth:    intOrDefault("ELEMENTSCOUT_THUMBNAIL_WIDTH", 320),
		ClassifyPrompt:    os.Getenv("ELEMENTSCOUT_CLASSIFY_PROMPT_FILE"),
		LocatePrompt:      os.Getenv("ELEMENTSCOUT_LOCATE_PROMPT_FILE"),
		ScriptPrompt:      os.Getenv("ELEMENTSCOUT_SCRIPT_PROMPT_FILE"),
		MissingPrompt:     os.Getenv("ELEMENTSCOUT_MISSING_PROMPT_FILE"),
		AlternativePrompt: os.Getenv("ELEMENTSCOUT_ALTERNATIVE_PROMPT_FILE"),
		LogLevel:          strings.ToLower(envOrDefault("ELEMENTSCOUT_LOG_LEVEL", "info")),
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func intOrDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
