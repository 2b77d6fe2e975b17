// internal/workers/checklist/update-checklist-item/config.go
package updatechecklistitem

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
