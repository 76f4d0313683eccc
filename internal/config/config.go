// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"arivo-ledger/pkg/db" // Import db package for its Config struct
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// AccrualSchedule is the cron expression for the daily accrual batch.
	AccrualSchedule string
	// AutoSettleDeposits settles deposits at creation instead of queueing
	// them for manual admin approval.
	AutoSettleDeposits bool
	// MinWithdrawalFiat is the smallest accepted withdrawal in whole ariary.
	MinWithdrawalFiat int64
	// MinWithdrawalToken is the smallest accepted withdrawal in token minor units.
	MinWithdrawalToken int64
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := envOr("SERVER_PORT", "8080")

	dbPort, err := envInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	minWithdrawalFiat, err := envInt64("MIN_WITHDRAWAL_MGA", 5_000)
	if err != nil {
		return nil, err
	}
	minWithdrawalToken, err := envInt64("MIN_WITHDRAWAL_USDT", 100) // 1.00 USDT
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     envOr("DB_USER", "user"),
			Password: envOr("DB_PASSWORD", "password"),
			DBName:   envOr("DB_NAME", "ledgerdb"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		AccrualSchedule:    envOr("ACCRUAL_SCHEDULE", "5 0 * * *"), // daily, shortly after midnight UTC
		AutoSettleDeposits: os.Getenv("AUTO_SETTLE_DEPOSITS") == "true",
		MinWithdrawalFiat:  minWithdrawalFiat,
		MinWithdrawalToken: minWithdrawalToken,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
