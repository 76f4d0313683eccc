// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "arivo-ledger/internal/api"
	"arivo-ledger/internal/api/handler"
	"arivo-ledger/internal/config"
	"arivo-ledger/internal/repository"
	"arivo-ledger/internal/repository/postgres"
	"arivo-ledger/internal/scheduler"
	"arivo-ledger/internal/service"
	"arivo-ledger/internal/util"
	"arivo-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository
	InvestmentRepository  repository.InvestmentRepository
	ReferralRepository    repository.ReferralRepository
	CommissionRepository  repository.CommissionRepository
	LedgerRepository      repository.LedgerRepository

	// Services
	CommissionEngine service.CommissionEngine
	LedgerService    service.LedgerService
	AccrualService   service.AccrualService

	// Background scheduler
	Scheduler *scheduler.Scheduler

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.InvestmentRepository = postgres.NewInvestmentRepository(app.DB)
	app.ReferralRepository = postgres.NewReferralRepository(app.DB)
	app.CommissionRepository = postgres.NewCommissionRepository(app.DB)
	app.LedgerRepository = postgres.NewLedgerRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.CommissionEngine = service.NewCommissionEngine(
		app.DB,
		app.ReferralRepository,
		app.CommissionRepository,
		app.AccountRepository,
		app.LedgerRepository,
		app.Logger,
	)
	policy := service.Policy{
		AutoSettleDeposits: app.Config.AutoSettleDeposits,
		MinWithdrawalFiat:  app.Config.MinWithdrawalFiat,
		MinWithdrawalToken: app.Config.MinWithdrawalToken,
	}
	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.AccountRepository,
		app.TransactionRepository,
		app.InvestmentRepository,
		app.ReferralRepository,
		app.LedgerRepository,
		app.CommissionEngine,
		policy,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.AccrualService = service.NewAccrualService(
		app.DB,
		app.DB,
		app.InvestmentRepository,
		app.AccountRepository,
		app.LedgerRepository,
		app.CommissionEngine,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 6. Initialize the accrual scheduler
	app.Scheduler = scheduler.New(app.AccrualService, app.Logger, app.Config.AccrualSchedule)

	// 7. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.CommissionEngine, app.AccrualService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Scheduler != nil {
		select {
		case <-app.Scheduler.Stop().Done():
		case <-ctx.Done():
			app.Logger.Warn("Timed out waiting for scheduler jobs to finish")
		}
		app.Logger.Info("Accrual scheduler stopped.")
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
