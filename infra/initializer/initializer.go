// Package initializer wires the process dependencies: logger, the single
// database handle, the unit of work and the services built on it.
package initializer

import (
	"log/slog"

	"github.com/abbeysbank/banking/config"
	"github.com/abbeysbank/banking/infra"
	infrarepo "github.com/abbeysbank/banking/infra/repository"
	accountmodel "github.com/abbeysbank/banking/infra/repository/account"
	auditmodel "github.com/abbeysbank/banking/infra/repository/audit"
	ledgermodel "github.com/abbeysbank/banking/infra/repository/ledger"
	"github.com/abbeysbank/banking/pkg/repository"
	accountsvc "github.com/abbeysbank/banking/pkg/service/account"
	authsvc "github.com/abbeysbank/banking/pkg/service/auth"
	transactionsvc "github.com/abbeysbank/banking/pkg/service/transaction"
	"gorm.io/gorm"
)

// Deps holds everything the entry points need.
type Deps struct {
	Cfg        *config.AppConfig
	Logger     *slog.Logger
	DB         *gorm.DB
	Uow        repository.UnitOfWork
	AccountSvc *accountsvc.Service
	AuthSvc    *authsvc.Service
	TxSvc      *transactionsvc.Service
}

// InitializeDependencies builds the full dependency graph over one database
// handle, acquired here and released by Close.
func InitializeDependencies(cfg *config.AppConfig) (*Deps, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&accountmodel.Account{},
		&ledgermodel.Transaction{},
		&auditmodel.UserLog{},
	); err != nil {
		return nil, err
	}

	uow := infrarepo.NewUoW(db)
	return &Deps{
		Cfg:        cfg,
		Logger:     logger,
		DB:         db,
		Uow:        uow,
		AccountSvc: accountsvc.New(uow, logger),
		AuthSvc:    authsvc.New(uow, cfg.Jwt, logger),
		TxSvc:      transactionsvc.New(uow, logger),
	}, nil
}

// Close releases the database handle.
func (d *Deps) Close() error {
	return infra.CloseDB(d.DB)
}
