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

// EDRReport uploads one row per site with total/resolved/unresolved threat
// counts for the previous quarter. A threat fetch failure aborts the run:
// the threat listing is the report's sole input and a partial fetch would
// underreport.
type EDRReport struct {
	source   interfaces.ThreatSource
	uploader *airtable.Uploader
	opts     *options
}

// NewEDRReport creates the EDR report pipeline.
func NewEDRReport(source interfaces.ThreatSource, uploader *airtable.Uploader, opts ...Option) *EDRReport {
	return &EDRReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *EDRReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting EDR report",
		slog.String("quarter", quarter.Label().String()))

	sites, err := uc.source.Sites(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list EDR sites")
	}
	roster := model.NewRoster(sites, uc.opts.overrides)

	threats, err := uc.source.Threats(ctx, quarter.Start(), quarter.End())
	if err != nil {
		return goerr.Wrap(err, "failed to list EDR threats")
	}
	logger.Info("fetched threats",
		slog.Int("count", len(threats)),
		slog.Int("sites", roster.Len()),
	)

	summaries := aggregateThreats(ctx, roster, quarter, threats)

	records := make([]model.Record, 0, len(summaries))
	for _, s := range summaries {
		if s.Company.IsSentinel() {
			continue
		}
		records = append(records, s.Record())
	}

	stats := uc.uploader.Upload(ctx, records)
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportEDR,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}

// aggregateThreats reduces threats into per-site summaries. Every roster
// site gets a row, zero-valued when the quarter had no threats for it.
// Threats are bucketed by their own detection timestamp, so anything
// outside the target quarter is dropped even if the vendor returned it.
func aggregateThreats(ctx context.Context, roster *model.Roster, quarter model.Quarter, threats []model.Threat) []*model.ThreatSummary {
	byOrg := make(map[types.OrgID]*model.ThreatSummary, roster.Len())
	summaries := make([]*model.ThreatSummary, 0, roster.Len())
	for _, company := range roster.Companies() {
		s := &model.ThreatSummary{Company: company, Quarter: quarter}
		byOrg[company.ID] = s
		summaries = append(summaries, s)
	}

	for _, threat := range threats {
		if model.QuarterOf(threat.DetectedAt) != quarter {
			continue
		}
		s, ok := byOrg[threat.OrgID]
		if !ok {
			warnUnknownOrg(ctx, "edr", threat.OrgID.String())
			continue
		}
		s.Total++
		if threat.Resolved {
			s.Resolved++
		} else {
			s.Unresolved++
		}
	}
	return summaries
}
