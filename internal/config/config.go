// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"os"
	"strconv"

	infraBQ "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/logger"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultDataset        = "payments"
	DefaultSnapshotsTable = "account_snapshots"
	DefaultRunsTable      = "replay_runs"
)

var ErrMissingProject = errors.New("config: GCP_PROJECT_ID is required when export is enabled")

// Config holds the settings shared by the replay and cli binaries.
type Config struct {
	LogLevel  string
	LogFormat string

	ProjectID       string
	Dataset         string
	SnapshotsTable  string
	RunsTable       string
	CredentialsFile string
	Bucket          string

	// Export enables writing snapshots and run records to BigQuery.
	Export bool
}

// Load reads .env (if present) and then the process environment.
// A missing .env file is not an error.
func Load() Config {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is Load with an explicit env file. Variables already set in the
// environment win over the file.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, err
	}
	return fromEnv(), nil
}

func fromEnv() Config {
	export, _ := strconv.ParseBool(getEnv("PAYMENTS_EXPORT", "false"))

	return Config{
		LogLevel:        getEnv("PAYMENTS_LOG_LEVEL", "info"),
		LogFormat:       getEnv("PAYMENTS_LOG_FORMAT", logger.FormatConsole),
		ProjectID:       getEnv("GCP_PROJECT_ID", ""),
		Dataset:         getEnv("BQ_DATASET", DefaultDataset),
		SnapshotsTable:  getEnv("BQ_SNAPSHOTS_TABLE", DefaultSnapshotsTable),
		RunsTable:       getEnv("BQ_RUNS_TABLE", DefaultRunsTable),
		CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
		Bucket:          getEnv("GCS_BUCKET", ""),
		Export:          export,
	}
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.Export && c.ProjectID == "" {
		return ErrMissingProject
	}
	return nil
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// Tables returns the BigQuery export location.
func (c Config) Tables() infraBQ.Tables {
	return infraBQ.Tables{
		ProjectID: c.ProjectID,
		Dataset:   c.Dataset,
		Snapshots: c.SnapshotsTable,
		Runs:      c.RunsTable,
	}
}

// ClientOptions returns the options shared by the storage and BigQuery clients.
func (c Config) ClientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
