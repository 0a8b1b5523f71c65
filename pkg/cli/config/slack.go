package config

import (
	"log/slog"

	"github.com/seclens/quarterback/pkg/domain/interfaces"
	"github.com/seclens/quarterback/pkg/service/notify"
	"github.com/urfave/cli/v3"
)

// Slack holds the optional run-summary notifier configuration.
type Slack struct {
	OAuthToken string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for run summaries",
			Category:    "Slack",
			Sources:     cli.EnvVars("QB_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel run summaries are posted to",
			Category:    "Slack",
			Sources:     cli.EnvVars("QB_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
	}
}

// IsConfigured checks if the notifier is configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.Channel != ""
}

// ConfigureOptional creates the notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) interfaces.Notifier {
	if !s.IsConfigured() {
		logger.Debug("Slack not configured - run summaries stay in logs only")
		return nil
	}
	return notify.NewSlackNotifier(s.OAuthToken, s.Channel)
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.Channel),
	)
}
