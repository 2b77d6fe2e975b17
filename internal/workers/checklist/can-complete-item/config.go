// internal/workers/checklist/can-complete-item/config.go
package cancompleteitem

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
