package interfaces

import (
	"context"
	"time"

	"github.com/seclens/quarterback/pkg/domain/model"
)

// ThreatSource lists the EDR vendor's site directory and threats.
type ThreatSource interface {
	Sites(ctx context.Context) ([]model.Company, error)
	Threats(ctx context.Context, start, end time.Time) ([]model.Threat, error)
}

// FindingSource lists the vulnerability vendor's organizations and findings.
type FindingSource interface {
	Organizations(ctx context.Context) ([]model.Company, error)
	Findings(ctx context.Context, start, end time.Time) ([]model.Finding, error)
}

// EscalationSource lists the incident-response vendor's organizations and
// escalated incidents.
type EscalationSource interface {
	Organizations(ctx context.Context) ([]model.Company, error)
	Escalations(ctx context.Context, start, end time.Time) ([]model.Escalation, error)
}

// CompromiseSource lists the dark-web vendor's organizations and observed
// compromises.
type CompromiseSource interface {
	Organizations(ctx context.Context) ([]model.Company, error)
	Compromises(ctx context.Context, start, end time.Time) ([]model.Compromise, error)
}

// CampaignSource lists the awareness-training vendor's companies and
// campaign statistics.
type CampaignSource interface {
	Companies(ctx context.Context) ([]model.Company, error)
	CampaignStats(ctx context.Context, start, end time.Time) ([]model.CampaignStat, error)
}

// AlertSource lists the SIEM vendor's organizations and alerts.
type AlertSource interface {
	Organizations(ctx context.Context) ([]model.Company, error)
	Alerts(ctx context.Context, start, end time.Time) ([]model.Alert, error)
}
