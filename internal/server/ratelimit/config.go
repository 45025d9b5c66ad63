package ratelimit

import (
	"os"
	"strconv"
)

// Rule is the budget for one route: a sustained per-minute rate with a burst.
type Rule struct {
	PerMinute float64
	Burst     int
}

// Config holds the limiter configuration.
type Config struct {
	Enabled bool
	Rules   map[string]Rule
}

// LoadConfig builds the limiter configuration from environment variables.
// RATE_LIMIT_ENABLED=false disables limiting entirely;
// RATE_LIMIT_ANALYZE_PER_MINUTE overrides the analysis budget.
func LoadConfig() Config {
	cfg := Config{
		Enabled: true,
		Rules: map[string]Rule{
			"/analyze":        {PerMinute: 6, Burst: 3},
			"/analyze-stream": {PerMinute: 6, Burst: 3},
		},
	}

	if v := os.Getenv("RATE_LIMIT_ENABLED"); v == "false" || v == "0" {
		cfg.Enabled = false
	}
	if v := os.Getenv("RATE_LIMIT_ANALYZE_PER_MINUTE"); v != "" {
		if perMinute, err := strconv.ParseFloat(v, 64); err == nil && perMinute > 0 {
			for path, rule := range cfg.Rules {
				rule.PerMinute = perMinute
				cfg.Rules[path] = rule
			}
		}
	}

	return cfg
}

func (c *Config) ruleFor(path string) (Rule, bool) {
	rule, ok := c.Rules[path]
	return rule, ok
}
