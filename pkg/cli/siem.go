package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSIEM() *cli.Command {
	var (
		siemCfg     config.SIEM
		airtableCfg config.Airtable
		rosterCfg   config.Roster
		slackCfg    config.Slack
	)

	flags := joinFlags(
		siemCfg.Flags(),
		airtableCfg.Flags(),
		rosterCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "siem",
		Usage: "Report previous-quarter alert counts per organization",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, deps, err := buildReportDeps(ctx, &airtableCfg, &rosterCfg, &slackCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting SIEM report",
				slog.Any("siem", siemCfg),
				slog.Any("airtable", airtableCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := siemCfg.Configure(ctx)
			if err != nil {
				return err
			}

			return usecase.NewSIEMReport(client, deps.uploader, deps.opts...).Run(ctx)
		},
	}
}
