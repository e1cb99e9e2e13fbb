package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/discovery"
	"github.com/quantmind-br/vcfind/internal/history"
	"github.com/quantmind-br/vcfind/internal/locator"
	"github.com/quantmind-br/vcfind/internal/toolset"
	"github.com/rs/zerolog"
)

// newDiscoverer wires the discovery pipeline from configuration and deps
func newDiscoverer(cfg *config.Config, log *zerolog.Logger, deps Deps, opts ...discovery.Option) *discovery.Discoverer {
	loc := locator.New(deps.Runner, deps.Env, cfg.Resolver(), log)
	return discovery.New(deps.Fs, loc, toolset.NewValidator(log), log, opts...)
}

// openHistory opens the run history database, creating its directory if needed
func openHistory(ctx context.Context, cfg *config.Config) (*history.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.DBFile), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return history.New(ctx, cfg.Paths.DBFile)
}

// recordRun stores a run when history is enabled. Failures are logged only.
func recordRun(ctx context.Context, cfg *config.Config, log *zerolog.Logger, res *discovery.Result, runErr error, startedAt time.Time) {
	if !cfg.History.Enabled || cfg.Paths.DBFile == "" {
		return
	}

	run, err := history.FromResult(res, runErr, startedAt)
	if err != nil {
		log.Warn().Err(err).Msg("failed to summarize discovery run")
		return
	}

	database, err := openHistory(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("db", cfg.Paths.DBFile).Msg("failed to open history")
		return
	}
	defer database.Close()

	if err := database.Record(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to record discovery run")
		return
	}

	log.Debug().Str("run_id", run.RunID).Str("fingerprint", run.Fingerprint).Msg("discovery run recorded")
}
