package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/service/training"
	"github.com/urfave/cli/v3"
)

// Training holds the security-awareness training vendor configuration.
type Training struct {
	URL   string
	Token string
}

// Flags returns CLI flags for Training configuration
func (c *Training) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "training-url",
			Usage:       "Awareness-training API base URL",
			Category:    "Training",
			Sources:     cli.EnvVars("QB_TRAINING_URL"),
			Destination: &c.URL,
		},
		&cli.StringFlag{
			Name:        "training-token",
			Usage:       "Awareness-training API token",
			Category:    "Training",
			Sources:     cli.EnvVars("QB_TRAINING_TOKEN"),
			Destination: &c.Token,
		},
	}
}

// Configure creates the training client.
func (c *Training) Configure() (*training.Client, error) {
	if c.URL == "" || c.Token == "" {
		return nil, goerr.New("training URL and token are required")
	}
	return training.New(c.URL, c.Token), nil
}

// LogValue returns structured log value
func (c Training) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", c.URL),
		slog.Bool("has_token", c.Token != ""),
	)
}
