package config

import (
	"fmt"

	"github.com/Gobusters/ectoenv"
	"github.com/joho/godotenv"
)

// Load builds the config from the environment. A .env file in the
// working directory is applied first when present; variables already
// set in the environment win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to bind environment config: %w", err)
	}
	return cfg, nil
}
