package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/incident"
	"github.com/urfave/cli/v3"
)

// Incident holds the incident-response vendor configuration.
type Incident struct {
	URL      string
	User     string
	Password string
}

// Flags returns CLI flags for Incident configuration
func (c *Incident) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "incident-url",
			Usage:       "Incident-response API base URL",
			Category:    "Incident",
			Sources:     cli.EnvVars("QB_INCIDENT_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "incident-user",
			Usage:       "Incident-response login user",
			Category:    "Incident",
			Sources:     cli.EnvVars("QB_INCIDENT_USER"),
			Destination: &c.User,
		},
		&cli.StringFlag{
			Name:        "incident-password",
			Usage:       "Incident-response login password",
			Category:    "Incident",
			Sources:     cli.EnvVars("QB_INCIDENT_PASSWORD"),
			Destination: &c.Password,
		},
	}
}

// Configure creates the incident client. Login happens at run start, not
// here, so credential failures surface inside the run with the auth tag.
func (c *Incident) Configure() (*incident.Client, error) {
	if c.URL == "" || c.User == "" || c.Password == "" {
		return nil, goerr.New("incident URL, user and password are required")
	}
	return incident.New(c.URL, c.User, c.Password), nil
}

// LogValue returns structured log value
func (c Incident) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.String("user", c.User),
		slog.Bool("has_password", c.Password != ""),
	)
}
