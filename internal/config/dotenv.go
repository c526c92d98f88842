package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		err := godotenv.Load(path)
		if err == nil {
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig loads .env files and then the process environment, returning
// the resolved application configuration.
func LoadConfig(dotenvPaths ...string) (*AppConfig, error) {
	if err := LoadDotEnv(dotenvPaths...); err != nil {
		return nil, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}
	return env.Normalize().ToAppConfig(), nil
}
