package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/seclens/quarterback/pkg/cli/config"
	"github.com/seclens/quarterback/pkg/domain/types"
	"github.com/seclens/quarterback/pkg/service/airtable"
	"github.com/seclens/quarterback/pkg/usecase"
)

// reportDeps is the wiring every report subcommand shares: the paced
// uploader plus the optional roster overrides and Slack notifier.
type reportDeps struct {
	uploader *airtable.Uploader
	opts     []usecase.Option
}

// buildReportDeps configures the shared collaborators and tags the log
// context with a fresh run ID so every line of one run correlates.
func buildReportDeps(ctx context.Context, airtableCfg *config.Airtable, rosterCfg *config.Roster, slackCfg *config.Slack) (context.Context, *reportDeps, error) {
	logger := ctxlog.From(ctx).With(slog.String("run_id", types.NewRunID().String()))
	ctx = ctxlog.With(ctx, logger)

	_, uploader, err := airtableCfg.Configure()
	if err != nil {
		return nil, nil, err
	}

	deps := &reportDeps{uploader: uploader}

	overrides, err := rosterCfg.Configure()
	if err != nil {
		return nil, nil, err
	}
	if overrides != nil {
		deps.opts = append(deps.opts, usecase.WithRosterOverrides(overrides))
	}

	if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
		deps.opts = append(deps.opts, usecase.WithNotifier(notifier))
	}

	return ctx, deps, nil
}
