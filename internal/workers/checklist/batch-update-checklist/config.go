// internal/workers/checklist/batch-update-checklist/config.go
package batchupdatechecklist

import "time"

type Config struct {
	Timeout time.Duration
	// MaxUpdates bounds one batch; larger batches are rejected as invalid input.
	MaxUpdates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    10 * time.Second,
		MaxUpdates: 100,
	}
}
