package model

import (
	"fmt"
	"time"

	"github.com/seclens/quarterback/pkg/domain/types"
)

// ThreatSummary is the per-company EDR aggregate: total threats with a
// resolved/unresolved split.
type ThreatSummary struct {
	Company Company
	Quarter Quarter

	Total      int
	Resolved   int
	Unresolved int
}

// Record flattens the summary into one destination payload.
func (s *ThreatSummary) Record() Record {
	return Record{Fields: map[string]any{
		FieldCompanyName:       s.Company.Name.String(),
		FieldQuarter:           s.Quarter.DateKey(),
		FieldTotalThreats:      s.Total,
		FieldResolvedThreats:   s.Resolved,
		FieldUnresolvedThreats: s.Unresolved,
	}}
}

// Severities is the fixed category set a SeverityBreakdown explodes into.
// Every roster company uploads one record per category, zero counts
// included, so companies without findings still appear.
var Severities = []string{"Critical", "High", "Medium", "Low"}

// SeverityBreakdown is the per-company vulnerability aggregate: finding
// counts keyed by severity label.
type SeverityBreakdown struct {
	Company Company
	Quarter Quarter

	Counts map[string]int
}

// Add increments the count for the given severity label.
func (s *SeverityBreakdown) Add(severity string) {
	if s.Counts == nil {
		s.Counts = make(map[string]int, len(Severities))
	}
	s.Counts[severity]++
}

// Records explodes the breakdown into one destination payload per severity
// category.
func (s *SeverityBreakdown) Records() []Record {
	records := make([]Record, 0, len(Severities))
	for _, severity := range Severities {
		records = append(records, Record{Fields: map[string]any{
			FieldCompanyName: s.Company.Name.String(),
			FieldQuarter:     s.Quarter.DateKey(),
			FieldStatus:      severity,
			FieldCount:       s.Counts[severity],
		}})
	}
	return records
}

// CountSummary is a single-metric per-company aggregate used by the
// incident, darkweb and siem pipelines. Field names the destination column
// the count is written to.
type CountSummary struct {
	Company Company
	Quarter Quarter

	Field string
	Count int
}

// Record flattens the summary into one destination payload.
func (s *CountSummary) Record() Record {
	return Record{Fields: map[string]any{
		FieldCompanyName: s.Company.Name.String(),
		FieldQuarter:     s.Quarter.DateKey(),
		s.Field:          s.Count,
	}}
}

// TrainingSummary is the per-company awareness-training aggregate: averages
// of per-campaign rates.
type TrainingSummary struct {
	Company Company
	Quarter Quarter

	ReportRate     float64
	PhishRate      float64
	CompletionRate float64
	Samples        int
}

// Observe accumulates one campaign's rates for later averaging.
func (s *TrainingSummary) Observe(report, phish, completion float64) {
	s.ReportRate += report
	s.PhishRate += phish
	s.CompletionRate += completion
	s.Samples++
}

// Record flattens the summary into one destination payload, averaging the
// accumulated rates. Companies with no campaigns report zero rates.
func (s *TrainingSummary) Record() Record {
	report, phish, completion := 0.0, 0.0, 0.0
	if s.Samples > 0 {
		n := float64(s.Samples)
		report = s.ReportRate / n
		phish = s.PhishRate / n
		completion = s.CompletionRate / n
	}
	return Record{Fields: map[string]any{
		FieldCompanyName:    s.Company.Name.String(),
		FieldQuarter:        s.Quarter.DateKey(),
		FieldReportRate:     report,
		FieldPhishRate:      phish,
		FieldCompletionRate: completion,
	}}
}

// UploadStats counts the outcome of one paced upload pass.
type UploadStats struct {
	Attempted int
	Uploaded  int
	Skipped   int
}

// RunSummary is the epilogue of one report run, logged and optionally
// posted to Slack.
type RunSummary struct {
	Report    types.ReportName
	Quarter   types.QuarterLabel
	Companies int
	Upload    UploadStats
	Duration  time.Duration
}

// String renders the summary as a single human-readable line.
func (s *RunSummary) String() string {
	return fmt.Sprintf("%s report for %s: %d companies, %d/%d records uploaded (%d skipped) in %s",
		s.Report, s.Quarter, s.Companies,
		s.Upload.Uploaded, s.Upload.Attempted, s.Upload.Skipped,
		s.Duration.Round(time.Millisecond))
}
