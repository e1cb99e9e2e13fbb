package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/discovery"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/quantmind-br/vcfind/internal/paths"
	"github.com/quantmind-br/vcfind/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger, deps Deps) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose toolset discovery",
		Long: `Show every input discovery depends on: the vswhere.exe locator, the VS140COMNTOOLS
variable, the ranked Visual Studio instances, accepted and excluded toolsets, and the
paths that were examined. Finding no toolset is reported but is not a failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			ui.FprintHeader(out, "Toolset Diagnostics")

			var issues []string
			var warnings []string

			// 1. Locator
			ui.FprintSubheader(out, "Locator")
			resolver := cfg.Resolver()
			vswhere := resolver.VSWherePath()
			if fsops.Exists(deps.Fs, vswhere) {
				ui.FprintSuccess(out, "vswhere.exe: %s", vswhere)
			} else {
				ui.FprintWarning(out, "vswhere.exe: not found (%s)", vswhere)
				warnings = append(warnings, "vswhere.exe not found; only Visual Studio 2015 can be located")
			}

			// 2. Environment
			ui.FprintSubheader(out, "Environment")
			ui.FprintKeyValue(out, "Program Files (x86)", resolver.ProgramFilesX86())
			if value, ok := deps.Env.LookupEnv(paths.LegacyEnvVar); ok && value != "" {
				ui.FprintSuccess(out, "%s: %s", paths.LegacyEnvVar, value)
			} else {
				ui.FprintInfo(out, "%s: not set", paths.LegacyEnvVar)
			}

			if cfg.History.Enabled {
				dir := filepath.Dir(cfg.Paths.DBFile)
				if checkDirectory(dir) {
					ui.FprintSuccess(out, "History directory: %s", dir)
				} else {
					ui.FprintError(out, "History directory: NOT ACCESSIBLE (%s)", dir)
					issues = append(issues, fmt.Sprintf("Directory not accessible: %s", dir))
				}
			}

			// 3. Discovery
			res, err := newDiscoverer(cfg, log, deps).Discover(ctx)
			switch {
			case err == nil:
			case errors.Is(err, core.ErrNoUsableToolset):
				warnings = append(warnings, "No usable toolset was found")
			default:
				issues = append(issues, err.Error())
			}

			if res != nil {
				printDiscovery(cmd, res, verbose)
				printFingerprint(cmd, cfg, res, &warnings)
			}

			// Summary
			ui.FprintHeader(out, "Summary")
			if len(issues) == 0 {
				ui.FprintSuccess(out, "All critical checks passed!")
			} else {
				ui.FprintError(out, "Found %d issue(s):", len(issues))
				ui.FprintList(out, issues)
			}

			if len(warnings) > 0 {
				ui.FprintWarning(out, "Found %d warning(s):", len(warnings))
				ui.FprintList(out, warnings)
			}

			fmt.Fprintln(out)

			if len(issues) > 0 {
				if err != nil && !errors.Is(err, core.ErrNoUsableToolset) {
					return err
				}
				return fmt.Errorf("doctor found %d issue(s)", len(issues))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show architecture details for every toolset")

	return cmd
}

func printDiscovery(cmd *cobra.Command, res *discovery.Result, verbose bool) {
	out := cmd.OutOrStdout()

	ui.FprintSubheader(out, "Instances (preferred first)")
	if len(res.Instances) == 0 {
		ui.FprintInfo(out, "No Visual Studio instances located")
	} else {
		ui.RenderInstances(out, res.Instances)
	}

	ui.FprintSubheader(out, "Toolsets")
	if len(res.Found) == 0 {
		ui.FprintWarning(out, "No usable toolset")
	} else {
		ui.RenderToolsets(out, res.Found)
		if verbose {
			for _, ts := range res.Found {
				fmt.Fprintln(out)
				ui.FprintKeyValue(out, "Toolset", ui.ColorizeToolsetVersion(string(ts.Version)))
				ui.FprintKeyValue(out, "vcvarsall", ts.VcvarsallPath)
				ui.FprintKeyValue(out, "dumpbin", ts.DumpbinPath)
				for _, a := range ts.SupportedArchitectures {
					fmt.Fprintf(out, "  %s %-12s host %s, target %s\n", ui.Bullet, a.Name, a.Host, a.Target)
				}
			}
		}
	}

	if len(res.Excluded) > 0 {
		ui.FprintSubheader(out, "Excluded")
		for _, ex := range res.Excluded {
			fmt.Fprintf(out, "  %s %s %s (%s)\n", ui.Bullet, ui.ColorizeToolsetVersion(string(ex.Toolset.Version)), ex.Toolset.VisualStudioRootPath, ex.Reason)
		}
	}

	ui.FprintSubheader(out, "Examined Paths")
	ui.FprintList(out, res.Examined)
}

// printFingerprint compares this run with the last recorded one
func printFingerprint(cmd *cobra.Command, cfg *config.Config, res *discovery.Result, warnings *[]string) {
	out := cmd.OutOrStdout()

	fp, err := discovery.Fingerprint(res)
	if err != nil {
		return
	}

	ui.FprintSubheader(out, "Fingerprint")
	ui.FprintKeyValue(out, "Current", fp)

	if !cfg.History.Enabled {
		return
	}

	database, err := openHistory(cmd.Context(), cfg)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Cannot open history: %v", err))
		return
	}
	defer database.Close()

	last, err := database.Latest(cmd.Context())
	switch {
	case err != nil:
		*warnings = append(*warnings, fmt.Sprintf("Cannot read history: %v", err))
	case last == nil:
		ui.FprintInfo(out, "No previous run recorded")
	case last.Fingerprint == fp:
		ui.FprintSuccess(out, "Matches last run (%s)", last.StartedAt.Local().Format("2006-01-02 15:04"))
	default:
		ui.FprintWarning(out, "Changed since last run (%s)", last.StartedAt.Local().Format("2006-01-02 15:04"))
	}
}

// checkDirectory checks if a directory exists (creating it if needed) and is writable
func checkDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0o755) == nil
		}
		return false
	}

	if !info.IsDir() {
		return false
	}

	testFile := filepath.Join(path, ".vcfind-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return false
	}
	os.Remove(testFile)

	return true
}
