package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDarkweb() *cli.Command {
	var (
		darkwebCfg  config.Darkweb
		airtableCfg config.Airtable
		rosterCfg   config.Roster
		slackCfg    config.Slack
	)

	flags := joinFlags(
		darkwebCfg.Flags(),
		airtableCfg.Flags(),
		rosterCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "darkweb",
		Usage: "Report previous-quarter compromise counts per organization",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, deps, err := buildReportDeps(ctx, &airtableCfg, &rosterCfg, &slackCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting darkweb report",
				slog.Any("darkweb", darkwebCfg),
				slog.Any("airtable", airtableCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := darkwebCfg.Configure()
			if err != nil {
				return err
			}
			if err := client.Authenticate(ctx); err != nil {
				return err
			}

			return usecase.NewDarkwebReport(client, deps.uploader, deps.opts...).Run(ctx)
		},
	}
}
