package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/edr"
	"github.com/urfave/cli/v3"
)

// EDR holds the endpoint detection vendor configuration.
type EDR struct {
	URL      string
	APIToken string
}

// Flags returns CLI flags for EDR configuration
func (c *EDR) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "edr-url",
			Usage:       "EDR console base URL",
			Category:    "EDR",
			Sources:     cli.EnvVars("QB_EDR_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "edr-api-token",
			Usage:       "EDR API token",
			Category:    "EDR",
			Sources:     cli.EnvVars("QB_EDR_API_TOKEN"),
			Destination: &c.APIToken,
		},
	}
}

// Configure creates the EDR client.
func (c *EDR) Configure() (*edr.Client, error) {
	if c.URL == "" || c.APIToken == "" {
		return nil, goerr.New("EDR URL and API token are required")
	}
	return edr.New(c.URL, c.APIToken), nil
}

// LogValue returns structured log value
func (c EDR) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("has_api_token", c.APIToken != ""),
	)
}
