// Package config loads application configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type DBConfig struct {
	Url string `envconfig:"URL"`
}

type JwtConfig struct {
	Secret string        `envconfig:"SECRET_KEY"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type LogConfig struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"banking"`
}

type AppConfig struct {
	Env  string    `envconfig:"APP_ENV" default:"development"`
	Host string    `envconfig:"APP_HOST" default:"localhost"`
	Port int       `envconfig:"APP_PORT" default:"3000"`
	DB   DBConfig  `envconfig:"DATABASE"`
	Jwt  JwtConfig `envconfig:"JWT"`
	Log  LogConfig `envconfig:"LOG"`
}

// Load reads the optional .env file and then the environment into AppConfig.
func Load(logger *slog.Logger, envFilePath ...string) (*AppConfig, error) {
	var err error
	if len(envFilePath) > 0 && envFilePath[0] != "" {
		err = godotenv.Load(envFilePath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		logger.Warn("No .env file found or specified, using system environment variables")
	} else {
		logger.Info("Environment variables loaded from .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	logger.Info("App config loaded",
		"env", cfg.Env,
		"host", cfg.Host,
		"port", cfg.Port,
		"jwt_expiry", cfg.Jwt.Expiry,
	)
	return &cfg, nil
}
