package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/darkweb"
	"github.com/urfave/cli/v3"
)

// Darkweb holds the dark-web monitoring vendor configuration.
type Darkweb struct {
	URL          string
	ClientID     string
	ClientSecret string
}

// Flags returns CLI flags for Darkweb configuration
func (c *Darkweb) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "darkweb-url",
			Usage:       "Dark-web monitoring API base URL",
			Category:    "Darkweb",
			Sources:     cli.EnvVars("QB_DARKWEB_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "darkweb-client-id",
			Usage:       "Dark-web monitoring client ID",
			Category:    "Darkweb",
			Sources:     cli.EnvVars("QB_DARKWEB_CLIENT_ID"),
			Destination: &c.ClientID,
		},
		&cli.StringFlag{
			Name:        "darkweb-client-secret",
			Usage:       "Dark-web monitoring client secret",
			Category:    "Darkweb",
			Sources:     cli.EnvVars("QB_DARKWEB_CLIENT_SECRET"),
			Destination: &c.ClientSecret,
		},
	}
}

// Configure creates the dark-web client.
func (c *Darkweb) Configure() (*darkweb.Client, error) {
	if c.URL == "" || c.ClientID == "" || c.ClientSecret == "" {
		return nil, goerr.New("darkweb URL, client ID and secret are required")
	}
	return darkweb.New(c.URL, c.ClientID, c.ClientSecret), nil
}

// LogValue returns structured log value
func (c Darkweb) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("has_client_id", c.ClientID != ""),
		slog.Bool("has_client_secret", c.ClientSecret != ""),
	)
}
