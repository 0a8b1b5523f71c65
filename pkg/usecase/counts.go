package usecase

import (
	"context"
	"time"

	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/seclens/quarterback/pkg/domain/types"
)

// aggregateCounts reduces timestamped records into one CountSummary per
// roster company, writing the count into the given destination column.
// Records outside the target quarter (judged by their own timestamp) and
// records for unknown organizations are skipped.
func aggregateCounts[T any](
	ctx context.Context,
	roster *model.Roster,
	quarter model.Quarter,
	report, field string,
	items []T,
	orgID func(T) types.OrgID,
	timestamp func(T) time.Time,
) []*model.CountSummary {
	byOrg := make(map[types.OrgID]*model.CountSummary, roster.Len())
	summaries := make([]*model.CountSummary, 0, roster.Len())
	for _, company := range roster.Companies() {
		s := &model.CountSummary{Company: company, Quarter: quarter, Field: field}
		byOrg[company.ID] = s
		summaries = append(summaries, s)
	}

	for _, item := range items {
		if model.QuarterOf(timestamp(item)) != quarter {
			continue
		}
		s, ok := byOrg[orgID(item)]
		if !ok {
			warnUnknownOrg(ctx, report, orgID(item).String())
			continue
		}
		s.Count++
	}
	return summaries
}

// countRecords flattens summaries into destination records, dropping
// sentinel companies.
func countRecords(summaries []*model.CountSummary) []model.Record {
	records := make([]model.Record, 0, len(summaries))
	for _, s := range summaries {
		if s.Company.IsSentinel() {
			continue
		}
		records = append(records, s.Record())
	}
	return records
}
