package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/usecase"
)

type fakeCampaignSource struct {
	companies []model.Company
	stats     []model.CampaignStat
}

func (f *fakeCampaignSource) Companies(ctx context.Context) ([]model.Company, error) {
	return f.companies, nil
}

func (f *fakeCampaignSource) CampaignStats(ctx context.Context, start, end time.Time) ([]model.CampaignStat, error) {
	return f.stats, nil
}

func TestTrainingReport(t *testing.T) {
	ctx := context.Background()

	t.Run("averages campaign rates per company", func(t *testing.T) {
		source := &fakeCampaignSource{
			companies: []model.Company{
				{ID: "a", Name: "Acme"},
				{ID: "b", Name: "Globex"},
			},
			stats: []model.CampaignStat{
				{OrgID: "a", EndedAt: q4(10, time.October), ReportRate: 0.25, PhishRate: 0.5, CompletionRate: 0.5},
				{OrgID: "a", EndedAt: q4(10, time.December), ReportRate: 0.75, PhishRate: 0.25, CompletionRate: 1.0},
				// outside the quarter, must not skew the average
				{OrgID: "a", EndedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), ReportRate: 1.0, PhishRate: 1.0, CompletionRate: 0.0},
			},
		}
		dest := &captureDestination{}

		uc := usecase.NewTrainingReport(source, newTestUploader(dest), usecase.WithClock(fixedClock))
		gt.NoError(t, uc.Run(ctx))

		acme := dest.companyRows("Acme")[0]
		gt.Equal(t, acme[model.FieldReportRate], 0.5)
		gt.Equal(t, acme[model.FieldPhishRate], 0.375)
		gt.Equal(t, acme[model.FieldCompletionRate], 0.75)

		globex := dest.companyRows("Globex")[0]
		gt.Equal(t, globex[model.FieldReportRate], 0.0)
		gt.Equal(t, globex[model.FieldCompletionRate], 0.0)
	})
}
