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

// IncidentReport uploads one row per organization with the count of
// incidents escalated in the previous quarter. The escalation listing is
// best-effort: a fetch failure is logged and the run proceeds with zero
// rows for every organization rather than aborting. The directory fetch
// stays fatal, since zero-seeding needs the roster.
type IncidentReport struct {
	source   interfaces.EscalationSource
	uploader *airtable.Uploader
	opts     *options
}

// NewIncidentReport creates the incident-response report pipeline.
func NewIncidentReport(source interfaces.EscalationSource, uploader *airtable.Uploader, opts ...Option) *IncidentReport {
	return &IncidentReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *IncidentReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting incident report",
		slog.String("quarter", quarter.Label().String()))

	orgs, err := uc.source.Organizations(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list incident organizations")
	}
	roster := model.NewRoster(orgs, uc.opts.overrides)

	escalations, err := uc.source.Escalations(ctx, quarter.Start(), quarter.End())
	if err != nil {
		logger.Warn("escalation fetch failed, reporting with partial data",
			slog.Any("error", err))
		escalations = nil
	}
	logger.Info("fetched escalations",
		slog.Int("count", len(escalations)),
		slog.Int("organizations", roster.Len()),
	)

	summaries := aggregateCounts(ctx, roster, quarter, "incident", model.FieldEscalations,
		escalations,
		func(e model.Escalation) types.OrgID { return e.OrgID },
		func(e model.Escalation) time.Time { return e.EscalatedAt },
	)

	stats := uc.uploader.Upload(ctx, countRecords(summaries))
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportIncident,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}
