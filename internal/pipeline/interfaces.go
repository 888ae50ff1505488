package pipeline

import (
	"github.com/dvloznov/payments-engine/internal/gcsuploader"
	infra "github.com/dvloznov/payments-engine/internal/infra/bigquery"
)

// StorageService opens gs:// inputs.
type StorageService = gcsuploader.StorageService

// SnapshotRepository records replay runs and their exported snapshots.
// A nil repository disables export.
type SnapshotRepository = infra.SnapshotRepository
