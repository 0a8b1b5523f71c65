package types

import (
	"github.com/google/uuid"
)

// OrgID represents a vendor-side organization identifier
type OrgID string

// String returns the string representation
func (id OrgID) String() string {
	return string(id)
}

// CompanyName represents a canonical company name
type CompanyName string

// String returns the string representation
func (n CompanyName) String() string {
	return string(n)
}

// QuarterLabel represents a quarter identifier of the form "2024-Q3"
type QuarterLabel string

// String returns the string representation
func (l QuarterLabel) String() string {
	return string(l)
}

// RunID represents a single report run, used to correlate log lines
type RunID string

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// NewRunID creates a new RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// ReportName identifies one of the vendor report pipelines
type ReportName string

// String returns the string representation
func (n ReportName) String() string {
	return string(n)
}

const (
	ReportEDR      ReportName = "edr"
	ReportVuln     ReportName = "vuln"
	ReportIncident ReportName = "incident"
	ReportDarkweb  ReportName = "darkweb"
	ReportTraining ReportName = "training"
	ReportSIEM     ReportName = "siem"
)
