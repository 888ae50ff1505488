package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/payments-engine/internal/csvio"
	"github.com/dvloznov/payments-engine/internal/gcsuploader"
	infra "github.com/dvloznov/payments-engine/internal/infra/bigquery"
	"github.com/dvloznov/payments-engine/internal/ledger"
	"github.com/dvloznov/payments-engine/internal/logger"
	"github.com/google/uuid"
)

// PipelineStep represents a single step in the replay pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	InputURI  string
	RunID     string
	Input     io.ReadCloser
	Ledger    *ledger.Ledger
	Snapshots []ledger.AccountSnapshot
	Stats     ReplayStats
}

// Step 1: StartRunStep assigns the run id, registering the run when a
// repository is configured.
type StartRunStep struct {
	Repo SnapshotRepository
}

func (s *StartRunStep) Name() string { return "start_run" }

func (s *StartRunStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Repo == nil {
		state.RunID = uuid.NewString()
		return nil
	}
	runID, err := s.Repo.StartReplayRun(ctx, state.InputURI)
	if err != nil {
		return err
	}
	state.RunID = runID
	return nil
}

// Step 2: OpenInputStep opens the local file or gs:// object.
type OpenInputStep struct {
	Storage StorageService
}

func (s *OpenInputStep) Name() string { return "open_input" }

func (s *OpenInputStep) Execute(ctx context.Context, state *PipelineState) error {
	rc, err := gcsuploader.OpenSource(ctx, s.Storage, state.InputURI)
	if err != nil {
		return err
	}
	state.Input = rc
	return nil
}

// Step 3: ReplayStep feeds every record to a fresh ledger in input order.
// Skipped records and malformed rows are logged at debug and counted. With
// Strict set a malformed row aborts the run instead.
type ReplayStep struct {
	Strict bool
}

func (s *ReplayStep) Name() string { return "replay" }

func (s *ReplayStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	if state.Input == nil {
		return errors.New("ReplayStep: no input opened")
	}
	defer func() {
		_ = state.Input.Close()
		state.Input = nil
	}()

	l := ledger.New()
	r := csvio.NewReader(state.Input)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("ReplayStep: line %d: %w", r.Line(), err)
		}

		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csvio.ErrMalformedRow) {
			if s.Strict {
				return fmt.Errorf("ReplayStep: %w", err)
			}
			state.Stats.Malformed++
			log.Debug().Err(err).Int("line", r.Line()).Msg("malformed row skipped")
			continue
		}
		if err != nil {
			return fmt.Errorf("ReplayStep: reading input: %w", err)
		}

		state.Stats.Rows++
		if err := l.Apply(tx); err != nil {
			log.Debug().
				Str("kind", tx.Kind.String()).
				Uint16("client", tx.ClientID).
				Uint32("tx", tx.TxID).
				Str("reason", ledger.Reason(err)).
				Int("line", r.Line()).
				Msg("record skipped")
		}
	}

	state.Ledger = l
	state.Stats.Ledger = l.Stats()
	return nil
}

// Step 4: WriteOutputStep writes the final snapshot as CSV.
type WriteOutputStep struct {
	Out io.Writer
}

func (s *WriteOutputStep) Name() string { return "write_output" }

func (s *WriteOutputStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Ledger == nil {
		return errors.New("WriteOutputStep: nothing replayed")
	}
	state.Snapshots = state.Ledger.Snapshot()
	state.Stats.Accounts = len(state.Snapshots)

	if err := csvio.NewWriter(s.Out).WriteAll(state.Snapshots); err != nil {
		return fmt.Errorf("WriteOutputStep: %w", err)
	}
	return nil
}

// Step 5: ExportSnapshotsStep stores the snapshot under the run id.
type ExportSnapshotsStep struct {
	Repo SnapshotRepository
	// Now stamps the rows; defaults to time.Now.
	Now func() time.Time
}

func (s *ExportSnapshotsStep) Name() string { return "export_snapshots" }

func (s *ExportSnapshotsStep) Execute(ctx context.Context, state *PipelineState) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rows := infra.ToSnapshotRows(state.RunID, state.Snapshots, now().UTC())
	return s.Repo.InsertSnapshots(ctx, rows)
}

// Step 6: MarkSuccessStep marks the run as SUCCESS with its counters.
type MarkSuccessStep struct {
	Repo SnapshotRepository
}

func (s *MarkSuccessStep) Name() string { return "mark_success" }

func (s *MarkSuccessStep) Execute(ctx context.Context, state *PipelineState) error {
	return s.Repo.MarkReplayRunSucceeded(ctx, state.RunID, state.Stats.Summary())
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, stepName(step), err)
		}
	}
	return nil
}

func stepName(step PipelineStep) string {
	if n, ok := step.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", step)
}

// NewReplayPipeline creates the standard replay pipeline. Export steps are
// included only when repo is non-nil.
func NewReplayPipeline(repo SnapshotRepository, storage StorageService, out io.Writer, strict bool) *Pipeline {
	steps := []PipelineStep{
		&StartRunStep{Repo: repo},
		&OpenInputStep{Storage: storage},
		&ReplayStep{Strict: strict},
		&WriteOutputStep{Out: out},
	}
	if repo != nil {
		steps = append(steps,
			&ExportSnapshotsStep{Repo: repo},
			&MarkSuccessStep{Repo: repo},
		)
	}
	return NewPipeline(steps...)
}
