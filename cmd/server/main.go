package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/abbeysbank/banking/config"
	"github.com/abbeysbank/banking/infra/initializer"
	"github.com/abbeysbank/banking/webapi"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(logger, ".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}
	if cfg.Jwt.Secret == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.Close() //nolint:errcheck

	app := webapi.SetupApp(webapi.Services{
		Account:   deps.AccountSvc,
		Auth:      deps.AuthSvc,
		Tx:        deps.TxSvc,
		JwtSecret: cfg.Jwt.Secret,
		Logger:    deps.Logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	deps.Logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
