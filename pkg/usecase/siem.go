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

// SIEMReport uploads one row per organization with the count of SIEM alerts
// raised in the previous quarter. An alert fetch failure aborts the run.
type SIEMReport struct {
	source   interfaces.AlertSource
	uploader *airtable.Uploader
	opts     *options
}

// NewSIEMReport creates the SIEM report pipeline.
func NewSIEMReport(source interfaces.AlertSource, uploader *airtable.Uploader, opts ...Option) *SIEMReport {
	return &SIEMReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *SIEMReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting SIEM report",
		slog.String("quarter", quarter.Label().String()))

	orgs, err := uc.source.Organizations(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list SIEM organizations")
	}
	roster := model.NewRoster(orgs, uc.opts.overrides)

	alerts, err := uc.source.Alerts(ctx, quarter.Start(), quarter.End())
	if err != nil {
		return goerr.Wrap(err, "failed to list SIEM alerts")
	}
	logger.Info("fetched alerts",
		slog.Int("count", len(alerts)),
		slog.Int("organizations", roster.Len()),
	)

	summaries := aggregateCounts(ctx, roster, quarter, "siem", model.FieldCount,
		alerts,
		func(a model.Alert) types.OrgID { return a.OrgID },
		func(a model.Alert) time.Time { return a.OccurredAt },
	)

	stats := uc.uploader.Upload(ctx, countRecords(summaries))
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportSIEM,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}
