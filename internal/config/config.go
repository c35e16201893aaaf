package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// placeholderValues are credential strings that count as "not configured".
// Example keys left over from .env templates must not trigger live calls.
var placeholderValues = map[string]struct{}{
	"":              {},
	"your-key-here": {},
	"your-api-key":  {},
	"your_api_key":  {},
	"xxx":           {},
	"placeholder":   {},
}

type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll bool
	CORSOrigins  []string

	// Export
	OutputDir string

	// Skip trace vendor selection
	SkipTraceProvider string
	BatchSkipKey      string
	REISkipKey        string

	// Search defaults, overridable per call
	DefaultYearThreshold int
	DefaultLeadCount     int

	// Outreach delivery (optional)
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	OutreachFromName string
	OutreachFromAddr string

	// Agent (optional)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:          getEnv("APP_ENV", "development"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll: strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true"),
		CORSOrigins:  splitCSV(getEnv("CORS_ORIGINS", "")),

		OutputDir: getEnv("OUTPUT_DIR", "output"),

		SkipTraceProvider: strings.ToLower(strings.TrimSpace(getEnv("SKIP_TRACE_PROVIDER", ""))),
		BatchSkipKey:      credential(getEnv("BATCH_SKIP_TRACING_API_KEY", "")),
		REISkipKey:        credential(getEnv("REISKIP_API_KEY", "")),

		DefaultYearThreshold: mustInt(getEnv("DEFAULT_YEAR_THRESHOLD", "2005")),
		DefaultLeadCount:     mustInt(getEnv("DEFAULT_LEAD_COUNT", "10")),

		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		OutreachFromName: getEnv("OUTREACH_FROM_NAME", "Lead Desk"),
		OutreachFromAddr: getEnv("OUTREACH_FROM_ADDRESS", ""),

		OpenAIAPIKey:  credential(getEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	if cfg.DefaultYearThreshold <= 0 {
		return nil, fmt.Errorf("DEFAULT_YEAR_THRESHOLD must be a positive year")
	}
	if cfg.DefaultLeadCount <= 0 {
		return nil, fmt.Errorf("DEFAULT_LEAD_COUNT must be positive")
	}
	if containsWildcard(cfg.CORSOrigins) {
		cfg.CORSAllowAll = true
	}

	return cfg, nil
}

// SkipTraceConfigured reports whether any skip trace vendor has a usable credential.
func (c *Config) SkipTraceConfigured() bool {
	return c.BatchSkipKey != "" || c.REISkipKey != ""
}

// OutreachEnabled reports whether the SMTP sender can be built.
func (c *Config) OutreachEnabled() bool {
	return c.SMTPHost != "" && c.OutreachFromAddr != ""
}

// AgentEnabled reports whether the tool-calling agent can be built.
func (c *Config) AgentEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// credential trims a key and maps placeholder template values to "".
func credential(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if _, ok := placeholderValues[strings.ToLower(trimmed)]; ok {
		return ""
	}
	return trimmed
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
