package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdIncident() *cli.Command {
	var (
		incidentCfg config.Incident
		airtableCfg config.Airtable
		rosterCfg   config.Roster
		slackCfg    config.Slack
	)

	flags := joinFlags(
		incidentCfg.Flags(),
		airtableCfg.Flags(),
		rosterCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "incident",
		Usage: "Report previous-quarter escalation counts per organization",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, deps, err := buildReportDeps(ctx, &airtableCfg, &rosterCfg, &slackCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting incident report",
				slog.Any("incident", incidentCfg),
				slog.Any("airtable", airtableCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := incidentCfg.Configure()
			if err != nil {
				return err
			}
			if err := client.Login(ctx); err != nil {
				return err
			}

			return usecase.NewIncidentReport(client, deps.uploader, deps.opts...).Run(ctx)
		},
	}
}
