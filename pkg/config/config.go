// Package config resolves runtime configuration from the environment
// and lets the Gemini API key be overridden at runtime, persisted
// alongside the application data.
package config

import (
	"os"
	"sync"

	"github.com/mhayashi/salon-shift-api/pkg/storage"
)

// DefaultGeminiBaseURL is the public Gemini REST endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultGeminiModel is used when GEMINI_MODEL is unset.
const DefaultGeminiModel = "gemini-1.5-flash"

// geminiKeyStorageKey is where a runtime-set API key persists.
const geminiKeyStorageKey = "gemini_api_key"

// Config holds the resolved runtime settings. The Gemini key can change
// at runtime; everything else is fixed at startup.
type Config struct {
	mu           sync.RWMutex
	geminiAPIKey string

	GeminiBaseURL string
	GeminiModel   string
	Port          string

	kv storage.KeyValue
}

// Load resolves configuration from the environment. A key stored via
// SetGeminiAPIKey takes precedence over GEMINI_API_KEY.
func Load(kv storage.KeyValue) *Config {
	cfg := &Config{
		geminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: envOr("GEMINI_BASE_URL", DefaultGeminiBaseURL),
		GeminiModel:   envOr("GEMINI_MODEL", DefaultGeminiModel),
		Port:          envOr("PORT", "8080"),
		kv:            kv,
	}
	if kv != nil {
		if stored, ok, err := kv.Get(geminiKeyStorageKey); err == nil && ok && stored != "" {
			cfg.geminiAPIKey = stored
		}
	}
	return cfg
}

// GeminiAPIKey returns the current API key, empty when unconfigured.
func (c *Config) GeminiAPIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.geminiAPIKey
}

// SetGeminiAPIKey replaces the API key and persists it so it survives
// restarts.
func (c *Config) SetGeminiAPIKey(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv != nil {
		if err := c.kv.Set(geminiKeyStorageKey, key); err != nil {
			return err
		}
	}
	c.geminiAPIKey = key
	return nil
}

// IsConfigured reports whether a Gemini API key is present.
func (c *Config) IsConfigured() bool {
	return c.GeminiAPIKey() != ""
}

// PublicView is the redacted configuration exposed over the API.
type PublicView struct {
	GeminiConfigured bool   `json:"gemini_configured"`
	GeminiModel      string `json:"gemini_model"`
}

// Public returns the client-safe view of the configuration.
func (c *Config) Public() PublicView {
	return PublicView{
		GeminiConfigured: c.IsConfigured(),
		GeminiModel:      c.GeminiModel,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
