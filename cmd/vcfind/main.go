package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/quantmind-br/vcfind/internal/cmd"
	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/logging"
	"github.com/quantmind-br/vcfind/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return core.ExitGeneral
	}

	ui.InitColors(cfg.Logging.Color)

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return core.ExitInterrupted
		}
		log.Debug().Err(err).Msg("command failed")
		return core.ExitCode(err)
	}

	return core.ExitSuccess
}

// loadConfig honours VCFIND_CONFIG as an explicit config file
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("VCFIND_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
