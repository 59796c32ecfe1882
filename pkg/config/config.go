package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all pipeline configuration
type Config struct {
	Data    DataConfig
	Rules   RulesConfig
	Logging LoggingConfig
}

// DataConfig locates the raw exports and the cleaned output.
type DataConfig struct {
	RawDir         string
	CleanDir       string
	ReportFileName string

	UsersFile        string
	ReferralsFile    string
	TransactionsFile string
	StatusesFile     string
	RewardsFile      string
}

// RulesConfig tunes the validity rule evaluation.
type RulesConfig struct {
	// ReferenceDate overrides "today" for the membership-expiry check.
	// Zero means the run date is used.
	ReferenceDate time.Time
}

type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			RawDir:           getEnv("RAW_DATA_DIR", "data_raw"),
			CleanDir:         getEnv("CLEAN_DATA_DIR", "data_cleaned"),
			ReportFileName:   getEnv("REPORT_FILE_NAME", "final_referral_report.csv"),
			UsersFile:        getEnv("USERS_FILE", "user_logs.csv"),
			ReferralsFile:    getEnv("REFERRALS_FILE", "user_referral.csv"),
			TransactionsFile: getEnv("TRANSACTIONS_FILE", "paid_transactions.csv"),
			StatusesFile:     getEnv("STATUSES_FILE", "user_referral_statuses.csv"),
			RewardsFile:      getEnv("REWARDS_FILE", "referral_rewards.csv"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if raw := os.Getenv("REFERENCE_DATE"); raw != "" {
		ref, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("REFERENCE_DATE must be YYYY-MM-DD: %w", err)
		}
		cfg.Rules.ReferenceDate = ref
	}

	if cfg.Data.RawDir == "" {
		return nil, errors.New("RAW_DATA_DIR is required")
	}
	if cfg.Data.CleanDir == "" {
		return nil, errors.New("CLEAN_DATA_DIR is required")
	}

	return cfg, nil
}

// UsersPath returns the full path of the user log export.
func (c *DataConfig) UsersPath() string { return filepath.Join(c.RawDir, c.UsersFile) }

// ReferralsPath returns the full path of the referral export.
func (c *DataConfig) ReferralsPath() string { return filepath.Join(c.RawDir, c.ReferralsFile) }

// TransactionsPath returns the full path of the paid transactions export.
func (c *DataConfig) TransactionsPath() string { return filepath.Join(c.RawDir, c.TransactionsFile) }

// StatusesPath returns the full path of the status lookup export.
func (c *DataConfig) StatusesPath() string { return filepath.Join(c.RawDir, c.StatusesFile) }

// RewardsPath returns the full path of the rewards export.
func (c *DataConfig) RewardsPath() string { return filepath.Join(c.RawDir, c.RewardsFile) }

// ReportPath returns the full path of the final report.
func (c *DataConfig) ReportPath() string { return filepath.Join(c.CleanDir, c.ReportFileName) }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
