// Package notify posts run summaries to a Slack ops channel.
package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/seclens/quarterback/pkg/domain/model"
	"github.com/slack-go/slack"
)

// SlackNotifier posts one summary message per report run.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier for the given channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// NotifyRunSummary posts the summary. Callers treat failures as
// best-effort: log and move on.
func (n *SlackNotifier) NotifyRunSummary(ctx context.Context, summary *model.RunSummary) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionText(summary.String(), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post run summary",
			goerr.V("channel", n.channel))
	}
	return nil
}
