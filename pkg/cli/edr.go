package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdEDR() *cli.Command {
	var (
		edrCfg      config.EDR
		airtableCfg config.Airtable
		rosterCfg   config.Roster
		slackCfg    config.Slack
	)

	flags := joinFlags(
		edrCfg.Flags(),
		airtableCfg.Flags(),
		rosterCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "edr",
		Usage: "Report previous-quarter threat counts per site",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, deps, err := buildReportDeps(ctx, &airtableCfg, &rosterCfg, &slackCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting EDR report",
				slog.Any("edr", edrCfg),
				slog.Any("airtable", airtableCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := edrCfg.Configure()
			if err != nil {
				return err
			}

			return usecase.NewEDRReport(client, deps.uploader, deps.opts...).Run(ctx)
		},
	}
}
