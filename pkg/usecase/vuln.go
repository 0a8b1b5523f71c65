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

// VulnReport uploads one row per (organization, severity) with the count of
// findings opened in the previous quarter. Zero counts upload too, so every
// organization appears under every severity. A findings fetch failure
// aborts the run.
type VulnReport struct {
	source   interfaces.FindingSource
	uploader *airtable.Uploader
	opts     *options
}

// NewVulnReport creates the vulnerability report pipeline.
func NewVulnReport(source interfaces.FindingSource, uploader *airtable.Uploader, opts ...Option) *VulnReport {
	return &VulnReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *VulnReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting vulnerability report",
		slog.String("quarter", quarter.Label().String()))

	orgs, err := uc.source.Organizations(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list vuln organizations")
	}
	roster := model.NewRoster(orgs, uc.opts.overrides)

	findings, err := uc.source.Findings(ctx, quarter.Start(), quarter.End())
	if err != nil {
		return goerr.Wrap(err, "failed to list findings")
	}
	logger.Info("fetched findings",
		slog.Int("count", len(findings)),
		slog.Int("organizations", roster.Len()),
	)

	breakdowns := aggregateFindings(ctx, roster, quarter, findings)

	var records []model.Record
	for _, b := range breakdowns {
		if b.Company.IsSentinel() {
			continue
		}
		records = append(records, b.Records()...)
	}

	stats := uc.uploader.Upload(ctx, records)
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportVuln,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}

// aggregateFindings reduces findings into per-organization severity
// breakdowns, bucketed by each finding's own opened timestamp.
func aggregateFindings(ctx context.Context, roster *model.Roster, quarter model.Quarter, findings []model.Finding) []*model.SeverityBreakdown {
	byOrg := make(map[types.OrgID]*model.SeverityBreakdown, roster.Len())
	breakdowns := make([]*model.SeverityBreakdown, 0, roster.Len())
	for _, company := range roster.Companies() {
		b := &model.SeverityBreakdown{Company: company, Quarter: quarter}
		byOrg[company.ID] = b
		breakdowns = append(breakdowns, b)
	}

	for _, finding := range findings {
		if model.QuarterOf(finding.OpenedAt) != quarter {
			continue
		}
		b, ok := byOrg[finding.OrgID]
		if !ok {
			warnUnknownOrg(ctx, "vuln", finding.OrgID.String())
			continue
		}
		b.Add(finding.Severity)
	}
	return breakdowns
}
