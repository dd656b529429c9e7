package main

import (
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/pshBlack/bank-backend/infra"
	infrarepo "github.com/pshBlack/bank-backend/infra/repository"
	"github.com/pshBlack/bank-backend/internal/logging"
	"github.com/pshBlack/bank-backend/pkg/config"
	accountsvc "github.com/pshBlack/bank-backend/pkg/service/account"
	usersvc "github.com/pshBlack/bank-backend/pkg/service/user"
	"github.com/pshBlack/bank-backend/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.Setup(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	uow := infrarepo.NewUoW(db)
	accountSvc := accountsvc.New(uow, logger)
	userSvc := usersvc.New(uow, logger)

	app := webapi.SetupApp(accountSvc, userSvc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)
	return app.Listen(addr)
}
