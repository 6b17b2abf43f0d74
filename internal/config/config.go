package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

type Config struct {
	Port string

	ChatProvider  string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiAPIKey  string
	GeminiModel   string

	PlacesAPIKey     string
	DirectionsAPIKey string
	// Language is the BCP 47 tag sent to the map providers, Region its lower-cased region subtag.
	Language string
	Region   string

	ProximityRadiusMeters int
	MarkerConcurrency     int
	SessionTTL            time.Duration

	PostgresURL   string
	PublicBaseURL string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not load .env file: %v", err)
	}

	cfg := &Config{
		Port:          getEnvWithDefault("PORT", "3000"),
		ChatProvider:  strings.ToLower(getEnvWithDefault("CHAT_PROVIDER", "openai")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvWithDefault("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		PlacesAPIKey:  os.Getenv("GOOGLE_PLACES_API_KEY"),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
	}
	cfg.DirectionsAPIKey = getEnvWithDefault("GOOGLE_DIRECTIONS_API_KEY", cfg.PlacesAPIKey)

	lang, region, err := parseLanguage(getEnvWithDefault("MAPS_LANGUAGE", "zh-TW"))
	if err != nil {
		return nil, err
	}
	cfg.Language, cfg.Region = lang, region

	if cfg.ProximityRadiusMeters, err = getIntEnv("PROXIMITY_RADIUS_METERS", 30000); err != nil {
		return nil, err
	}
	if cfg.MarkerConcurrency, err = getIntEnv("MARKER_CONCURRENCY", 4); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = time.ParseDuration(getEnvWithDefault("SESSION_TTL", "2h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	return cfg, nil
}

// Validate reports every required key that is missing at once.
func (c *Config) Validate() error {
	var missing []string
	switch c.ChatProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER %q", c.ChatProvider)
	}
	if c.PlacesAPIKey == "" {
		missing = append(missing, "GOOGLE_PLACES_API_KEY")
	}
	if c.MarkerConcurrency < 1 {
		return fmt.Errorf("MARKER_CONCURRENCY must be at least 1")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) ChatAPIKey() string {
	if c.ChatProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func (c *Config) ChatModel() string {
	if c.ChatProvider == "gemini" {
		return c.GeminiModel
	}
	return c.OpenAIModel
}

func parseLanguage(raw string) (string, string, error) {
	tag, err := language.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("MAPS_LANGUAGE %q: %w", raw, err)
	}
	region, conf := tag.Region()
	if conf == language.No {
		return tag.String(), "", nil
	}
	return tag.String(), strings.ToLower(region.String()), nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
