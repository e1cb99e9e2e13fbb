package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/discovery"
	"github.com/quantmind-br/vcfind/internal/security"
	"github.com/quantmind-br/vcfind/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --format
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// NewFindCmd creates the find command
func NewFindCmd(cfg *config.Config, log *zerolog.Logger, deps Deps) *cobra.Command {
	var (
		jsonOutput bool
		format     string
		filter     string
		arch       string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find usable Visual C++ toolsets",
		Long: `Locate Visual Studio instances and list every complete toolset, most preferred first.

Instances are found through vswhere.exe, the VS140COMNTOOLS environment variable and the
default Visual Studio 2015 directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if jsonOutput {
				format = formatJSON
			}
			format = strings.ToLower(format)
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (expected table, json or yaml)", format)
			}

			var opts []discovery.Option
			var spinner *ui.ProgressBar
			if format == formatTable && !quiet {
				spinner = ui.NewSpinner(cmd.ErrOrStderr(), "Locating Visual Studio instances")
				opts = append(opts, discovery.WithProgress(func(inst core.Instance) {
					spinner.Describe(fmt.Sprintf("Checking %s", inst.RootPath))
					_ = spinner.Add(1)
				}))
			}

			if arch != "" {
				if err := security.ValidateArchName(arch); err != nil {
					return err
				}
			}

			startedAt := time.Now()
			res, err := newDiscoverer(cfg, log, deps, opts...).Discover(ctx)
			if spinner != nil {
				_ = spinner.Finish()
				_ = spinner.Clear()
			}

			recordRun(ctx, cfg, log, res, err, startedAt)
			discovery.Report(cmd.ErrOrStderr(), res, err)
			if err != nil {
				return err
			}

			toolsets := filterToolsets(res.Found, filter, arch)

			switch format {
			case formatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(toolsets)
			case formatYAML:
				return writeYAML(cmd.OutOrStdout(), toolsets)
			}

			if len(toolsets) == 0 {
				ui.FprintWarning(cmd.OutOrStdout(), "No toolsets found matching filters")
				return nil
			}

			ui.FprintHeader(cmd.OutOrStdout(), "Visual C++ Toolsets")
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d toolsets", len(res.Found))
			if len(toolsets) != len(res.Found) {
				fmt.Fprintf(cmd.OutOrStdout(), " (showing %d filtered)", len(toolsets))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout())

			ui.RenderToolsets(cmd.OutOrStdout(), toolsets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format (same as --format json)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy filter on toolset version or Visual Studio path")
	cmd.Flags().StringVar(&arch, "arch", "", "only show toolsets supporting this vcvarsall architecture (e.g. x86_amd64)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not show progress")

	return cmd
}

// filterToolsets keeps preference order while applying the fuzzy and arch filters
func filterToolsets(toolsets []core.Toolset, filter, arch string) []core.Toolset {
	filtered := make([]core.Toolset, 0, len(toolsets))
	filter = strings.TrimSpace(filter)

	for _, ts := range toolsets {
		if arch != "" && !ts.SupportsArch(arch) {
			continue
		}
		if filter != "" &&
			!fuzzy.MatchNormalizedFold(filter, string(ts.Version)) &&
			!fuzzy.MatchNormalizedFold(filter, ts.VisualStudioRootPath) {
			continue
		}
		filtered = append(filtered, ts)
	}

	return filtered
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
