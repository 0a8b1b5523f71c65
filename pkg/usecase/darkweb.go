package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/interfaces"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/airtable"
)

// DarkwebReport uploads one row per organization with the count of dark-web
// compromises discovered in the previous quarter. Like the incident report,
// the compromise listing is best-effort: a fetch failure degrades to zero
// rows instead of killing the run.
type DarkwebReport struct {
	source   interfaces.CompromiseSource
	uploader *airtable.Uploader
	opts     *options
}

// NewDarkwebReport creates the dark-web report pipeline.
func NewDarkwebReport(source interfaces.CompromiseSource, uploader *airtable.Uploader, opts ...Option) *DarkwebReport {
	return &DarkwebReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *DarkwebReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting darkweb report",
		slog.String("quarter", quarter.Label().String()))

	orgs, err := uc.source.Organizations(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list darkweb organizations")
	}
	roster := model.NewRoster(orgs, uc.opts.overrides)

	compromises, err := uc.source.Compromises(ctx, quarter.Start(), quarter.End())
	if err != nil {
		logger.Warn("compromise fetch failed, reporting with partial data",
			slog.Any("error", err))
		compromises = nil
	}
	logger.Info("fetched compromises",
		slog.Int("count", len(compromises)),
		slog.Int("organizations", roster.Len()),
	)

	summaries := aggregateCounts(ctx, roster, quarter, "darkweb", model.FieldCompromises,
		compromises,
		func(c model.Compromise) types.OrgID { return c.OrgID },
		func(c model.Compromise) time.Time { return c.DiscoveredAt },
	)

	stats := uc.uploader.Upload(ctx, countRecords(summaries))
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportDarkweb,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}
