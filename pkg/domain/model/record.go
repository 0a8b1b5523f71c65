package model

// Destination table column names shared by all report pipelines.
const (
	FieldCompanyName       = "Company Name"
	FieldQuarter           = "Quarter"
	FieldTotalThreats      = "Total Threats"
	FieldResolvedThreats   = "Resolved Threats"
	FieldUnresolvedThreats = "Unresolved Threats"
	FieldCount             = "Count"
	FieldStatus            = "Status"
	FieldEscalations       = "Escalations"
	FieldCompromises       = "Compromises"
	FieldReportRate        = "Report Rate"
	FieldPhishRate         = "Phish Rate"
	FieldCompletionRate    = "Completion Rate"
)

// Record is one destination payload: the "fields" object of a single
// record-store insert. Records are created once, submitted once, and never
// updated or deleted.
type Record struct {
	Fields map[string]any
}
