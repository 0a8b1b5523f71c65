package model

import (
	"time"

	"github.com/seclens/quarterback/pkg/domain/types"
)

// Raw vendor records, normalized to the fields aggregation needs: an
// organization identifier and the record's own timestamp. Everything else
// the vendors return is dropped at the client boundary.

// Threat is one EDR detection.
type Threat struct {
	OrgID      types.OrgID
	DetectedAt time.Time
	Resolved   bool
}

// Finding is one vulnerability-management finding.
type Finding struct {
	OrgID    types.OrgID
	OpenedAt time.Time
	Severity string
}

// Escalation is one incident escalated by the incident-response vendor.
type Escalation struct {
	OrgID       types.OrgID
	EscalatedAt time.Time
}

// Compromise is one dark-web credential or data exposure.
type Compromise struct {
	OrgID        types.OrgID
	DiscoveredAt time.Time
}

// CampaignStat is one awareness-training campaign result for one company.
type CampaignStat struct {
	OrgID          types.OrgID
	EndedAt        time.Time
	ReportRate     float64
	PhishRate      float64
	CompletionRate float64
}

// Alert is one SIEM alert.
type Alert struct {
	OrgID      types.OrgID
	OccurredAt time.Time
}
