package config

import "time"

// LearnAPIConfig contains the upstream learning API client configuration.
// Content endpoints and remote verification are wired only when BaseURL
// is set.
type LearnAPIConfig struct {
	BaseURL    string        `env:"URL"`
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"10s"`
	RetryCount int           `env:"RETRY_COUNT" envDefault:"2"`
}

// Enabled reports whether the upstream API is configured.
func (c LearnAPIConfig) Enabled() bool {
	return c.BaseURL != ""
}

// Sanitize applies guardrails to API client configuration values.
func (c *LearnAPIConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RetryCount < 0 {
		c.RetryCount = 0
	}
}
