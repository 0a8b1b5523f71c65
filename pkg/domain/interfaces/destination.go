package interfaces

import (
	"context"

	"github.com/seclens/quarterback/pkg/domain/model"
)

// Destination is the record-store endpoint aggregate rows are written to.
// Inserts are append-only; the pipelines never update or delete records.
type Destination interface {
	CreateRecord(ctx context.Context, fields map[string]any) error
}

// Notifier posts a run summary to an ops channel. Implementations must be
// best-effort: a notification failure never fails a run.
type Notifier interface {
	NotifyRunSummary(ctx context.Context, summary *model.RunSummary) error
}
