package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdTraining() *cli.Command {
	var (
		trainingCfg config.Training
		airtableCfg config.Airtable
		rosterCfg   config.Roster
		slackCfg    config.Slack
	)

	flags := joinFlags(
		trainingCfg.Flags(),
		airtableCfg.Flags(),
		rosterCfg.Flags(),
		slackCfg.Flags(),
	)

	return &cli.Command{
		Name:  "training",
		Usage: "Report previous-quarter awareness-training rates per company",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, deps, err := buildReportDeps(ctx, &airtableCfg, &rosterCfg, &slackCfg)
			if err != nil {
				return err
			}

			ctxlog.From(ctx).Info("Starting training report",
				slog.Any("training", trainingCfg),
				slog.Any("airtable", airtableCfg),
				slog.Any("slack", slackCfg),
			)

			client, err := trainingCfg.Configure()
			if err != nil {
				return err
			}

			return usecase.NewTrainingReport(client, deps.uploader, deps.opts...).Run(ctx)
		},
	}
}
