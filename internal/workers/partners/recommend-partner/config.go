// internal/workers/partners/recommend-partner/config.go
package recommendpartner

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
