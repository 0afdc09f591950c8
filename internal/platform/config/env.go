package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from environment variables using its env
// struct tags.
func ParseEnv(target any) error {
	if target == nil {
		return errors.New("config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
