package cmd

import (
	"github.com/quantmind-br/vcfind/internal/config"
	"github.com/quantmind-br/vcfind/internal/helpers"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Deps holds the side-effecting collaborators commands run against
type Deps struct {
	Fs     afero.Fs
	Runner helpers.CommandRunner
	Env    helpers.Environment
}

// DefaultDeps returns dependencies backed by the real OS
func DefaultDeps() Deps {
	return Deps{
		Fs:     afero.NewOsFs(),
		Runner: helpers.NewOSCommandRunner(),
		Env:    helpers.OSEnvironment{},
	}
}

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	return NewRootCmdWithDeps(cfg, log, version, DefaultDeps())
}

// NewRootCmdWithDeps creates the root command with explicit dependencies
func NewRootCmdWithDeps(cfg *config.Config, log *zerolog.Logger, version string, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcfind",
		Short: "Locate Visual C++ toolsets",
		Long: `Discover installed Visual Studio instances and the MSVC toolsets (v141, v140, v120)
they provide, ordered by preference.`,
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewFindCmd(cfg, log, deps))
	cmd.AddCommand(NewSelectCmd(cfg, log, deps))
	cmd.AddCommand(NewDoctorCmd(cfg, log, deps))
	cmd.AddCommand(NewHistoryCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd(cfg, log))
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
