// internal/workers/partners/select-partner/config.go
package selectpartner

import "time"

type Config struct {
	Timeout time.Duration
	// PublishEvent announces each selection through the configured publisher.
	PublishEvent bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
