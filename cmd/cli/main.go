package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dvloznov/payments-engine/internal/config"
	"github.com/dvloznov/payments-engine/internal/csvio"
	"github.com/dvloznov/payments-engine/internal/gcs"
	"github.com/dvloznov/payments-engine/internal/gcsuploader"
	infraBQ "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/dvloznov/payments-engine/internal/logger"
	"github.com/rs/zerolog"
)

const commandTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	log := logger.NewWithConfig(cfg.Logger())

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "upload":
		runUpload(log, cfg)
	case "init":
		runInit(log, cfg)
	case "runs":
		runRuns(log, cfg)
	case "inspect":
		runInspect(log, cfg)
	case "delete":
		runDelete(log, cfg)
	case "diff":
		runDiff(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Payments Engine CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  upload    Upload a transaction CSV to GCS")
	fmt.Println("  init      Create the BigQuery dataset and tables")
	fmt.Println("  runs      List recent replay runs")
	fmt.Println("  inspect   Print the snapshot exported by a run")
	fmt.Println("  delete    Delete a run and its snapshot")
	fmt.Println("  diff      Compare two snapshot CSV files")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func newRepository(ctx context.Context, log zerolog.Logger, cfg config.Config) *infraBQ.BigQuerySnapshotRepository {
	if cfg.ProjectID == "" {
		log.Fatal().Msg("Error: GCP_PROJECT_ID is required")
	}
	repo, err := infraBQ.NewBigQuerySnapshotRepository(ctx, cfg.Tables(), cfg.ClientOptions()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create repository")
	}
	return repo
}

func runUpload(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", cfg.Bucket, "GCS bucket name")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to local CSV file")
	fs.Parse(os.Args[2:])

	if *bucketName == "" || *filePath == "" {
		log.Fatal().Msg("Usage: cli upload -bucket NAME -file PATH")
	}

	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading file to GCS")

	svc := gcsuploader.NewGCSStorageService(cfg.ClientOptions()...)
	if err := svc.UploadFile(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, gcs.BuildURI(*bucketName, *objectName))
}

func runInit(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, cfg)
	defer repo.Close()

	if err := repo.EnsureTables(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to create tables")
	}

	fmt.Printf("Tables ready in %s.%s\n", cfg.ProjectID, cfg.Dataset)
}

func runRuns(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, cfg)
	defer repo.Close()

	runs, err := repo.ListRecentRuns(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list runs")
	}

	fmt.Printf("\n=== Replay Runs (%d) ===\n", len(runs))
	for _, run := range runs {
		fmt.Printf("\n%s  %s\n", run.RunID, run.Status)
		fmt.Printf("   Input:    %s\n", run.InputURI)
		fmt.Printf("   Started:  %s\n", run.StartedTS.Format(time.RFC3339))
		if run.FinishedTS.Valid {
			fmt.Printf("   Finished: %s\n", run.FinishedTS.Timestamp.Format(time.RFC3339))
		}
		if run.RecordsApplied.Valid {
			fmt.Printf("   Records:  %d applied, %d skipped, %d malformed\n",
				run.RecordsApplied.Int64, run.RecordsSkipped.Int64, run.RowsMalformed.Int64)
		}
		if run.ErrorMessage.Valid && run.ErrorMessage.StringVal != "" {
			fmt.Printf("   Error:    %s\n", run.ErrorMessage.StringVal)
		}
	}
	fmt.Println()
}

func runInspect(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	runID := fs.String("run-id", "", "Run ID to inspect")
	fs.Parse(os.Args[2:])

	if *runID == "" {
		log.Fatal().Msg("Error: --run-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, cfg)
	defer repo.Close()

	rows, err := repo.ListSnapshotsByRun(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list snapshots")
	}
	if len(rows) == 0 {
		log.Fatal().Str("run_id", *runID).Msg("No snapshots for run")
	}

	snaps := make([]ledger.AccountSnapshot, 0, len(rows))
	for _, row := range rows {
		s, err := row.Snapshot()
		if err != nil {
			log.Fatal().Err(err).Int64("client", row.ClientID).Msg("Invalid snapshot row")
		}
		snaps = append(snaps, s)
	}

	if err := csvio.NewWriter(os.Stdout).WriteAll(snaps); err != nil {
		log.Fatal().Err(err).Msg("Failed to write snapshot")
	}
}

func runDelete(log zerolog.Logger, cfg config.Config) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	runID := fs.String("run-id", "", "Run ID to delete")
	fs.Parse(os.Args[2:])

	if *runID == "" {
		log.Fatal().Msg("Error: --run-id is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	repo := newRepository(ctx, log, cfg)
	defer repo.Close()

	if err := repo.DeleteRun(ctx, *runID); err != nil {
		log.Fatal().Err(err).Str("run_id", *runID).Msg("Delete failed")
	}

	fmt.Printf("Deleted run %s\n", *runID)
}

func runDiff(log zerolog.Logger) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	if fs.NArg() != 2 {
		log.Fatal().Msg("Usage: cli diff A.csv B.csv")
	}

	left, err := readSnapshotFile(fs.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read snapshot")
	}
	right, err := readSnapshotFile(fs.Arg(1))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read snapshot")
	}

	diffs := diffSnapshots(left, right)
	if len(diffs) == 0 {
		fmt.Println("Snapshots are identical.")
		return
	}

	for _, d := range diffs {
		fmt.Println(d)
	}
	os.Exit(1)
}
