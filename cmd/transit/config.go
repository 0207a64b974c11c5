package main

import (
	"errors"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed into Config
var ErrParsingConfig = errors.New("failed to parse environment variables into config")

// Config is read from the environment, optionally seeded from a .env file
type Config struct {
	Definition string          `env:"TRANSIT_DEFINITION,required"`
	LogLevel   string          `env:"TRANSIT_LOG_LEVEL" envDefault:"info"`
	LogFormat  string          `env:"TRANSIT_LOG_FORMAT" envDefault:"text"`
	Guards     map[string]bool `env:"TRANSIT_GUARDS"`
}

func loadConfig() (Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}
