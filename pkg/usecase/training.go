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

// TrainingReport uploads one row per company with report/phish/completion
// rates averaged over the previous quarter's campaigns. A stats fetch
// failure aborts the run.
type TrainingReport struct {
	source   interfaces.CampaignSource
	uploader *airtable.Uploader
	opts     *options
}

// NewTrainingReport creates the awareness-training report pipeline.
func NewTrainingReport(source interfaces.CampaignSource, uploader *airtable.Uploader, opts ...Option) *TrainingReport {
	return &TrainingReport{
		source:   source,
		uploader: uploader,
		opts:     newOptions(opts...),
	}
}

// Run executes the pipeline for the quarter before the current one.
func (uc *TrainingReport) Run(ctx context.Context) error {
	started := time.Now()
	logger := ctxlog.From(ctx)

	quarter := model.PreviousQuarter(uc.opts.now())
	logger.Info("starting training report",
		slog.String("quarter", quarter.Label().String()))

	companies, err := uc.source.Companies(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list training companies")
	}
	roster := model.NewRoster(companies, uc.opts.overrides)

	campaignStats, err := uc.source.CampaignStats(ctx, quarter.Start(), quarter.End())
	if err != nil {
		return goerr.Wrap(err, "failed to list campaign stats")
	}
	logger.Info("fetched campaign stats",
		slog.Int("count", len(campaignStats)),
		slog.Int("companies", roster.Len()),
	)

	summaries := aggregateCampaigns(ctx, roster, quarter, campaignStats)

	records := make([]model.Record, 0, len(summaries))
	for _, s := range summaries {
		if s.Company.IsSentinel() {
			continue
		}
		records = append(records, s.Record())
	}

	stats := uc.uploader.Upload(ctx, records)
	uc.opts.finish(ctx, &model.RunSummary{
		Report:    types.ReportTraining,
		Quarter:   quarter.Label(),
		Companies: roster.Len(),
		Upload:    stats,
		Duration:  time.Since(started),
	})
	return nil
}

// aggregateCampaigns averages campaign rates per company, bucketed by each
// campaign's own end timestamp. Companies without campaigns keep zero
// rates.
func aggregateCampaigns(ctx context.Context, roster *model.Roster, quarter model.Quarter, campaignStats []model.CampaignStat) []*model.TrainingSummary {
	byOrg := make(map[types.OrgID]*model.TrainingSummary, roster.Len())
	summaries := make([]*model.TrainingSummary, 0, roster.Len())
	for _, company := range roster.Companies() {
		s := &model.TrainingSummary{Company: company, Quarter: quarter}
		byOrg[company.ID] = s
		summaries = append(summaries, s)
	}

	for _, stat := range campaignStats {
		if model.QuarterOf(stat.EndedAt) != quarter {
			continue
		}
		s, ok := byOrg[stat.OrgID]
		if !ok {
			warnUnknownOrg(ctx, "training", stat.OrgID.String())
			continue
		}
		s.Observe(stat.ReportRate, stat.PhishRate, stat.CompletionRate)
	}
	return summaries
}
