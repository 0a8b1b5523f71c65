package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/siem"
	"github.com/urfave/cli/v3"
)

// SIEM holds the SIEM vendor configuration. Authentication is OAuth2 client
// credentials against the vendor's token endpoint.
type SIEM struct {
	URL          string
	ClientID     string
	ClientSecret string
}

// Flags returns CLI flags for SIEM configuration
func (c *SIEM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "siem-url",
			Usage:       "SIEM API base URL",
			Category:    "SIEM",
			Sources:     cli.EnvVars("QB_SIEM_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "siem-client-id",
			Usage:       "SIEM OAuth2 client ID",
			Category:    "SIEM",
			Sources:     cli.EnvVars("QB_SIEM_CLIENT_ID"),
			Destination: &c.ClientID,
		},
		&cli.StringFlag{
			Name:        "siem-client-secret",
			Usage:       "SIEM OAuth2 client secret",
			Category:    "SIEM",
			Sources:     cli.EnvVars("QB_SIEM_CLIENT_SECRET"),
			Destination: &c.ClientSecret,
		},
	}
}

// Configure creates the SIEM client.
func (c *SIEM) Configure(ctx context.Context) (*siem.Client, error) {
	if c.URL == "" || c.ClientID == "" || c.ClientSecret == "" {
		return nil, goerr.New("SIEM URL, client ID and secret are required")
	}
	return siem.New(ctx, c.URL, c.ClientID, c.ClientSecret), nil
}

// LogValue returns structured log value
func (c SIEM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("has_client_id", c.ClientID != ""),
		slog.Bool("has_client_secret", c.ClientSecret != ""),
	)
}
