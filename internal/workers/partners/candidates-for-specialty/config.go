// internal/workers/partners/candidates-for-specialty/config.go
package candidatesforspecialty

import "time"

type Config struct {
	Timeout time.Duration
	// Limit caps the returned list; 0 returns every match.
	Limit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
