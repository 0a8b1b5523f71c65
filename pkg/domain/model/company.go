package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/types"
)

// Company is one entry of a vendor's organization directory.
type Company struct {
	ID   types.OrgID
	Name types.CompanyName
}

// sentinelNames are the placeholder directory entries some vendors emit for
// records that could not be attributed to a real organization. They take
// part in aggregation but must never reach the destination table.
var sentinelNames = map[string]bool{
	"no sites found":       true,
	"no organization":      true,
	"unknown organization": true,
	"unassigned":           true,
}

// IsSentinel reports whether the company is a "no organization" placeholder.
func (c Company) IsSentinel() bool {
	return c.Name == "" || sentinelNames[strings.ToLower(strings.TrimSpace(c.Name.String()))]
}

// RosterOverrides is the optional YAML-supplied adjustment of a vendor
// directory: alias canonicalization and explicit exclusions.
type RosterOverrides struct {
	// Aliases maps a vendor-side company name to the canonical name used in
	// the destination table.
	Aliases map[string]string `yaml:"aliases"`
	// Exclude lists company names that must not be reported at all.
	Exclude []string `yaml:"exclude"`
}

// Validate validates the overrides
func (o *RosterOverrides) Validate() error {
	for from, to := range o.Aliases {
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			return goerr.New("alias entries must not be empty",
				goerr.V("from", from), goerr.V("to", to))
		}
	}
	for _, name := range o.Exclude {
		if strings.TrimSpace(name) == "" {
			return goerr.New("exclude entries must not be empty")
		}
	}
	return nil
}

// Roster is a vendor directory with overrides applied, in directory order.
type Roster struct {
	companies []Company
	byID      map[types.OrgID]Company
}

// NewRoster builds a roster from a vendor directory listing. Overrides may
// be nil. Excluded companies are dropped; aliased companies carry their
// canonical name.
func NewRoster(directory []Company, overrides *RosterOverrides) *Roster {
	excluded := map[string]bool{}
	aliases := map[string]string{}
	if overrides != nil {
		for _, name := range overrides.Exclude {
			excluded[strings.ToLower(strings.TrimSpace(name))] = true
		}
		for from, to := range overrides.Aliases {
			aliases[strings.ToLower(strings.TrimSpace(from))] = to
		}
	}

	r := &Roster{byID: make(map[types.OrgID]Company, len(directory))}
	for _, c := range directory {
		key := strings.ToLower(strings.TrimSpace(c.Name.String()))
		if excluded[key] {
			continue
		}
		if canonical, ok := aliases[key]; ok {
			c.Name = types.CompanyName(canonical)
		}
		if _, dup := r.byID[c.ID]; dup {
			continue
		}
		r.companies = append(r.companies, c)
		r.byID[c.ID] = c
	}
	return r
}

// Companies returns the roster entries in directory order, sentinels
// included. Callers filter sentinels at upload time, not here, so that
// unattributed records still aggregate somewhere visible in logs.
func (r *Roster) Companies() []Company {
	return r.companies
}

// Len returns the number of roster entries.
func (r *Roster) Len() int {
	return len(r.companies)
}
