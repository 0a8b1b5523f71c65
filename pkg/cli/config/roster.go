package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Roster holds the optional roster-override file path. The file carries
// company name aliases and exclusions applied on top of every vendor
// directory.
type Roster struct {
	Path string
}

// Flags returns CLI flags for Roster configuration
func (r *Roster) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "roster-overrides",
			Usage:       "YAML file with company aliases and exclusions",
			Category:    "Roster",
			Sources:     cli.EnvVars("QB_ROSTER_OVERRIDES"),
			Destination: &r.Path,
		},
	}
}

// Configure loads the overrides file. Returns nil when no path is set.
func (r *Roster) Configure() (*model.RosterOverrides, error) {
	if r.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read roster overrides",
			goerr.V("path", r.Path))
	}

	var overrides model.RosterOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, goerr.Wrap(err, "failed to parse roster overrides",
			goerr.V("path", r.Path))
	}
	if err := overrides.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid roster overrides",
			goerr.V("path", r.Path))
	}
	return &overrides, nil
}

// LogValue returns structured log value
func (r Roster) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", r.Path))
}
