package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/airtable"
	"github.com/urfave/cli/v3"
)

// Airtable holds destination record-store configuration, including the
// upload pacing budget.
type Airtable struct {
	Token  string
	Base   string
	Table  string
	Budget int // write calls allowed per pacing unit
	Unit   time.Duration
}

// Flags returns CLI flags for Airtable configuration
func (a *Airtable) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "airtable-token",
			Usage:       "Airtable API token",
			Category:    "Airtable",
			Sources:     cli.EnvVars("QB_AIRTABLE_TOKEN"),
			Destination: &a.Token,
		},
		&cli.StringFlag{
			Name:        "airtable-base",
			Usage:       "Airtable base ID",
			Category:    "Airtable",
			Sources:     cli.EnvVars("QB_AIRTABLE_BASE"),
			Destination: &a.Base,
		},
		&cli.StringFlag{
			Name:        "airtable-table",
			Usage:       "Airtable table name or ID",
			Category:    "Airtable",
			Sources:     cli.EnvVars("QB_AIRTABLE_TABLE"),
			Destination: &a.Table,
		},
		&cli.IntFlag{
			Name:        "airtable-rate",
			Usage:       "Write calls allowed per pacing unit",
			Category:    "Airtable",
			Value:       5,
			Sources:     cli.EnvVars("QB_AIRTABLE_RATE"),
			Destination: &a.Budget,
		},
		&cli.DurationFlag{
			Name:        "airtable-rate-unit",
			Usage:       "Pacing unit the rate budget applies to",
			Category:    "Airtable",
			Value:       time.Second,
			Sources:     cli.EnvVars("QB_AIRTABLE_RATE_UNIT"),
			Destination: &a.Unit,
		},
	}
}

// Validate validates the destination configuration
func (a *Airtable) Validate() error {
	if a.Token == "" {
		return goerr.New("airtable token is required")
	}
	if a.Base == "" || a.Table == "" {
		return goerr.New("airtable base and table are required",
			goerr.V("base", a.Base), goerr.V("table", a.Table))
	}
	if a.Budget <= 0 {
		return goerr.New("airtable rate budget must be positive",
			goerr.V("rate", a.Budget))
	}
	return nil
}

// Configure creates the record-store client and its paced uploader.
func (a *Airtable) Configure() (*airtable.Client, *airtable.Uploader, error) {
	if err := a.Validate(); err != nil {
		return nil, nil, err
	}
	client := airtable.New(a.Token, a.Base, a.Table)
	uploader := airtable.NewUploader(client, a.Unit, a.Budget)
	return client, uploader, nil
}

// LogValue returns structured log value
func (a Airtable) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_token", a.Token != ""),
		slog.String("base", a.Base),
		slog.String("table", a.Table),
		slog.Int("rate", a.Budget),
		slog.Duration("rate_unit", a.Unit),
	)
}
