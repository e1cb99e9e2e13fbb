package cmd

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/discovery"
	"github.com/quantmind-br/vcfind/internal/security"
	"github.com/quantmind-br/vcfind/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// selectPrompt is swapped out in tests
var selectPrompt = ui.SelectPromptDetailed

// NewSelectCmd creates the select command
func NewSelectCmd(cfg *config.Config, log *zerolog.Logger, deps Deps) *cobra.Command {
	var (
		arch  string
		first bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick a toolset and print its environment setup command",
		Long: `Choose one of the discovered toolsets and print the vcvarsall.bat invocation that
prepares a build environment for it. The command is printed, never executed.

With --first the most preferred toolset (and its first architecture, unless --arch is
given) is chosen without prompting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if arch != "" {
				if err := security.ValidateArchName(arch); err != nil {
					return err
				}
			}

			res, err := newDiscoverer(cfg, log, deps).Discover(ctx)
			discovery.Report(cmd.ErrOrStderr(), res, err)
			if err != nil {
				return err
			}

			candidates := filterToolsets(res.Found, "", arch)
			if len(candidates) == 0 {
				return fmt.Errorf("%w: no toolset supports architecture %q", core.ErrNoUsableToolset, arch)
			}

			chosen := candidates[0]
			if !first && len(candidates) > 1 {
				options := make([]ui.SelectOption, len(candidates))
				for i, ts := range candidates {
					options[i] = ui.SelectOption{
						Label:  fmt.Sprintf("%s  %s", ts.Version, ts.VisualStudioRootPath),
						Detail: ui.ArchNames(ts.SupportedArchitectures),
						Value:  ts.VisualStudioRootPath,
					}
				}
				idx, _, err := selectPrompt("Select toolset", options)
				if err != nil {
					return err
				}
				chosen = candidates[idx]
			}

			selectedArch, err := chooseArch(chosen, arch, first)
			if err != nil {
				return err
			}

			log.Info().
				Str("toolset", string(chosen.Version)).
				Str("root", chosen.VisualStudioRootPath).
				Str("arch", selectedArch).
				Msg("toolset selected")

			fmt.Fprintln(cmd.OutOrStdout(), formatCommand(chosen.SetupCommand(selectedArch)))
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "vcvarsall architecture option (e.g. x86, amd64, x86_arm)")
	cmd.Flags().BoolVar(&first, "first", false, "choose the most preferred toolset without prompting")

	return cmd
}

// chooseArch resolves the architecture option for a toolset
func chooseArch(ts core.Toolset, arch string, first bool) (string, error) {
	if arch != "" {
		return arch, nil
	}

	archs := ts.SupportedArchitectures
	switch {
	case len(archs) == 0:
		return "", fmt.Errorf("toolset %s at %s has no architecture scripts", ts.Version, ts.VisualStudioRootPath)
	case first || len(archs) == 1:
		return archs[0].Name, nil
	}

	options := make([]ui.SelectOption, len(archs))
	for i, a := range archs {
		options[i] = ui.SelectOption{
			Label:  a.Name,
			Detail: fmt.Sprintf("host %s, target %s", a.Host, a.Target),
			Value:  a.Name,
		}
	}

	_, opt, err := selectPrompt("Select architecture", options)
	if err != nil {
		return "", err
	}
	return opt.Value, nil
}

// formatCommand joins args for display, quoting those with spaces
func formatCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t") {
			arg = `"` + arg + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
