// Package usecase holds the six report pipelines. Each runs the same
// sequential flow against a different vendor: fetch the directory roster,
// fetch the previous quarter's records, aggregate per company with
// zero-seeded rows, and upload the rows through the paced uploader.
package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/domain/interfaces"
	"github.com/seclens/quarterback/pkg/domain/model"
)

type options struct {
	notifier  interfaces.Notifier
	overrides *model.RosterOverrides
	now       func() time.Time
}

// Option configures a report pipeline.
type Option func(*options)

// WithNotifier posts a run summary after upload. Notification failures are
// logged, never fatal.
func WithNotifier(n interfaces.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithRosterOverrides applies alias/exclude adjustments to the vendor
// directory.
func WithRosterOverrides(overrides *model.RosterOverrides) Option {
	return func(o *options) {
		o.overrides = overrides
	}
}

// WithClock replaces the reference clock used to resolve the previous
// quarter.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts ...Option) *options {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// finish logs the run summary and posts it to the notifier when one is
// configured.
func (o *options) finish(ctx context.Context, summary *model.RunSummary) {
	logger := ctxlog.From(ctx)
	logger.Info("report run finished",
		slog.String("report", summary.Report.String()),
		slog.String("quarter", summary.Quarter.String()),
		slog.Int("companies", summary.Companies),
		slog.Int("attempted", summary.Upload.Attempted),
		slog.Int("uploaded", summary.Upload.Uploaded),
		slog.Int("skipped", summary.Upload.Skipped),
		slog.Duration("duration", summary.Duration),
	)

	if o.notifier == nil {
		return
	}
	if err := o.notifier.NotifyRunSummary(ctx, summary); err != nil {
		logger.Warn("failed to notify run summary", slog.Any("error", err))
	}
}

// warnUnknownOrg logs a record whose organization is not in the roster.
// The record is skipped, not fatal.
func warnUnknownOrg(ctx context.Context, report string, orgID string) {
	ctxlog.From(ctx).Warn("record references unknown organization, skipping",
		slog.String("report", report),
		slog.String("org_id", orgID),
	)
}
