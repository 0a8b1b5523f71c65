package airtable

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/domain/interfaces"
	"github.com/seclens/quarterback/pkg/domain/model"
)

// Uploader submits destination records sequentially, pacing every call to
// stay inside the record store's rate limit. A row failure is logged and
// skipped; it never aborts the remaining rows, and no row is retried. The
// pacing delay runs after every attempt, success or failure.
type Uploader struct {
	dest  interfaces.Destination
	delay time.Duration
	wait  func(ctx context.Context, d time.Duration)
}

// NewUploader creates an uploader with a minimum inter-request delay of
// unit / budget (e.g. 1s / 5 = 200ms between calls).
func NewUploader(dest interfaces.Destination, unit time.Duration, budget int) *Uploader {
	delay := time.Duration(0)
	if budget > 0 {
		delay = unit / time.Duration(budget)
	}
	return &Uploader{
		dest:  dest,
		delay: delay,
		wait:  sleep,
	}
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Upload submits the records in order and reports the outcome counts.
func (u *Uploader) Upload(ctx context.Context, records []model.Record) model.UploadStats {
	logger := ctxlog.From(ctx)

	var stats model.UploadStats
	for _, record := range records {
		if ctx.Err() != nil {
			logger.Warn("upload cancelled",
				slog.Int("remaining", len(records)-stats.Attempted))
			break
		}
		stats.Attempted++
		u.submit(ctx, record, &stats)
	}
	return stats
}

// submit sends one record. The deferred wait keeps the pacing delay in
// place on every return path.
func (u *Uploader) submit(ctx context.Context, record model.Record, stats *model.UploadStats) {
	defer u.wait(ctx, u.delay)

	logger := ctxlog.From(ctx)
	if err := u.dest.CreateRecord(ctx, record.Fields); err != nil {
		logger.Warn("record upload failed, skipping row",
			slog.Any("error", err),
			slog.Any("fields", record.Fields),
		)
		stats.Skipped++
		return
	}
	stats.Uploaded++
}
