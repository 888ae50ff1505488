package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/dvloznov/payments-engine/internal/gcs"
	"github.com/dvloznov/payments-engine/internal/gcsuploader"
	infra "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/logger"
	"google.golang.org/api/option"
)

// Options configures RunReplay.
type Options struct {
	// Strict turns malformed input rows into a fatal error.
	Strict bool
	// Export records the run and its snapshot in BigQuery.
	Export bool
	Tables infra.Tables
	// ClientOptions are passed to the storage and BigQuery clients.
	ClientOptions []option.ClientOption
}

// RunReplay replays the transaction log named by input (a local path or a
// gs:// URI) and writes the final account snapshot to out.
func RunReplay(ctx context.Context, input string, out io.Writer, opts Options) (*PipelineState, error) {
	var storage StorageService
	if gcs.IsURI(input) {
		storage = gcsuploader.NewGCSStorageService(opts.ClientOptions...)
	}

	var repo SnapshotRepository
	if opts.Export {
		bqRepo, err := infra.NewBigQuerySnapshotRepository(ctx, opts.Tables, opts.ClientOptions...)
		if err != nil {
			return nil, fmt.Errorf("RunReplay: %w", err)
		}
		defer bqRepo.Close()

		if err := bqRepo.EnsureTables(ctx); err != nil {
			return nil, fmt.Errorf("RunReplay: %w", err)
		}
		repo = bqRepo
	}

	return RunReplayWithDeps(ctx, input, out, repo, storage, opts)
}

// RunReplayWithDeps is RunReplay with injected dependencies. repo and storage
// may be nil: a nil repo disables export and a nil storage restricts input to
// local files. When a step after the run was registered fails, the run is
// marked FAILED.
func RunReplayWithDeps(
	ctx context.Context,
	input string,
	out io.Writer,
	repo SnapshotRepository,
	storage StorageService,
	opts Options,
) (*PipelineState, error) {
	log := logger.FromContext(ctx)

	state := &PipelineState{InputURI: input}
	p := NewReplayPipeline(repo, storage, out, opts.Strict)

	if err := p.Execute(ctx, state); err != nil {
		if state.Input != nil {
			_ = state.Input.Close()
		}
		if repo != nil && state.RunID != "" {
			repo.MarkReplayRunFailed(ctx, state.RunID, err)
		}
		return state, err
	}

	log.Info().
		Str("run_id", state.RunID).
		Str("input", input).
		Object("stats", state.Stats).
		Msg("replay finished")

	return state, nil
}
