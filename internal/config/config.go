// Package config loads process configuration from MESHEDIT_* environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// SchemaPath points at the batch contract file.
	SchemaPath string `env:"MESHEDIT_SCHEMA_PATH" envDefault:"schema/tool_calls_schema.json"`
	// AuditDB is the sqlite file for batch reports. Empty disables auditing.
	AuditDB string `env:"MESHEDIT_AUDIT_DB"`
	// Model overrides the provider default.
	Model           string  `env:"MESHEDIT_MODEL"`
	MaxTokens       int64   `env:"MESHEDIT_MAX_TOKENS" envDefault:"1024"`
	AgentMaxSteps   int     `env:"MESHEDIT_AGENT_MAX_STEPS" envDefault:"4"`
	TokenBudget     int     `env:"MESHEDIT_TOKEN_BUDGET"`
	BoundsTolerance float64 `env:"MESHEDIT_BOUNDS_TOLERANCE" envDefault:"10"`
	MCPName         string  `env:"MESHEDIT_MCP_NAME" envDefault:"meshedit"`
	// Transcript is where interactive agent sessions are kept. Empty disables it.
	Transcript string `env:"MESHEDIT_TRANSCRIPT"`
}

// Load parses the process environment into a Config.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("invalid MESHEDIT_MAX_TOKENS: %d", cfg.MaxTokens)
	}
	if cfg.AgentMaxSteps <= 0 {
		return Config{}, fmt.Errorf("invalid MESHEDIT_AGENT_MAX_STEPS: %d", cfg.AgentMaxSteps)
	}
	if cfg.TokenBudget < 0 {
		return Config{}, fmt.Errorf("invalid MESHEDIT_TOKEN_BUDGET: %d", cfg.TokenBudget)
	}
	return cfg, nil
}
