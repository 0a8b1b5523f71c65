package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/vuln"
	"github.com/urfave/cli/v3"
)

// Vuln holds the vulnerability-management vendor configuration.
type Vuln struct {
	URL      string
	User     string
	Password string
}

// Flags returns CLI flags for Vuln configuration
func (c *Vuln) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vuln-url",
			Usage:       "Vulnerability API base URL",
			Category:    "Vuln",
			Sources:     cli.EnvVars("QB_VULN_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "vuln-user",
			Usage:       "Vulnerability API basic-auth user",
			Category:    "Vuln",
			Sources:     cli.EnvVars("QB_VULN_USER"),
			Destination: &c.User,
		},
		&cli.StringFlag{
			Name:        "vuln-password",
			Usage:       "Vulnerability API basic-auth password",
			Category:    "Vuln",
			Sources:     cli.EnvVars("QB_VULN_PASSWORD"),
			Destination: &c.Password,
		},
	}
}

// Configure creates the vulnerability client.
func (c *Vuln) Configure() (*vuln.Client, error) {
	if c.URL == "" || c.User == "" || c.Password == "" {
		return nil, goerr.New("vuln URL, user and password are required")
	}
	return vuln.New(c.URL, c.User, c.Password), nil
}

// LogValue returns structured log value
func (c Vuln) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.String("user", c.User),
		slog.Bool("has_password", c.Password != ""),
	)
}
