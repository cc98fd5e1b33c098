package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Validate reports every setting the server cannot start with, not just the first.
func (c Config) Validate() error {
	var err error

	if len(c.JWTSecret) == 0 {
		err = multierr.Append(err, errors.New("JWT_SECRET is required"))
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		err = multierr.Append(err, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		err = multierr.Append(err, errors.New("DATABASE_URL is required"))
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		err = multierr.Append(err, fmt.Errorf("SERVER_PORT out of range: %d", c.ServerPort))
	}

	return err
}
