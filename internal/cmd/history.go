package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/history"
	"github.com/quantmind-br/vcfind/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past discovery runs",
		Long:  `List recorded discovery runs, most recent first, with their result fingerprints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			database, err := openHistory(ctx, cfg)
			if err != nil {
				ui.FprintError(cmd.ErrOrStderr(), "failed to open history: %v", err)
				return fmt.Errorf("open history: %w", err)
			}
			defer database.Close()

			runs, err := database.List(ctx, limit)
			if err != nil {
				ui.FprintError(cmd.ErrOrStderr(), "failed to list runs: %v", err)
				return fmt.Errorf("list runs: %w", err)
			}

			log.Debug().Int("runs", len(runs)).Msg("loaded run history")

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			if len(runs) == 0 {
				ui.FprintInfo(cmd.OutOrStdout(), "No discovery runs recorded")
				return nil
			}

			printRunTable(cmd, runs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")

	return cmd
}

func printRunTable(cmd *cobra.Command, runs []history.Run) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Run ID", "Started", "Outcome", "Found", "Excluded", "Examined", "Fingerprint"}),
		tablewriter.WithAlignment(tw.MakeAlign(7, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, run := range runs {
		runID := run.RunID
		if len(runID) > 8 {
			runID = runID[:8]
		}

		fingerprint := run.Fingerprint
		if fingerprint == "" {
			fingerprint = "-"
		} else if len(fingerprint) > 12 {
			fingerprint = fingerprint[:12]
		}

		table.Append(
			runID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Outcome,
			strconv.Itoa(run.Found),
			strconv.Itoa(run.Excluded),
			strconv.Itoa(run.Examined),
			fingerprint,
		)
	}

	table.Render()
}
