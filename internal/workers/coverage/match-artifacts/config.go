// internal/workers/coverage/match-artifacts/config.go
package matchartifacts

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
