// Package locator gathers Visual Studio installation candidates.
//
// Three sources are consulted and their results concatenated without
// deduplication: vswhere.exe, the VS140COMNTOOLS environment variable and
// the default VS2015 install directory. No candidate is judged for
// completeness here beyond the legacy cl.exe/vcvarsall.bat gate.
package locator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/quantmind-br/vcfind/internal/helpers"
	"github.com/quantmind-br/vcfind/internal/paths"
	"github.com/quantmind-br/vcfind/internal/tagscan"
	"github.com/rs/zerolog"
)

// LegacyVersion is the version assigned to VS2015 instances found outside vswhere
const LegacyVersion = "14.0"

// VSWhereArgs requests every product, including prerelease and legacy ones, as XML
var VSWhereArgs = []string{"-prerelease", "-legacy", "-products", "*", "-format", "xml"}

// Locator produces raw installation candidates
type Locator struct {
	runner helpers.CommandRunner
	env    helpers.Environment
	paths  *paths.Resolver
	log    *zerolog.Logger
}

// New creates a Locator
func New(runner helpers.CommandRunner, env helpers.Environment, resolver *paths.Resolver, log *zerolog.Logger) *Locator {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Locator{
		runner: runner,
		env:    env,
		paths:  resolver,
		log:    log,
	}
}

// Locate runs all three strategies. Every path checked is recorded on p.
// A failing vswhere.exe or a malformed report aborts the whole run.
func (l *Locator) Locate(ctx context.Context, p *fsops.Prober) ([]core.Instance, error) {
	var instances []core.Instance

	fromVSWhere, err := l.fromVSWhere(ctx, p)
	if err != nil {
		return nil, err
	}
	instances = append(instances, fromVSWhere...)

	instances = append(instances, l.fromEnvironment(p)...)
	instances = append(instances, l.fromDefaultDir(p)...)

	l.log.Debug().
		Int("vswhere", len(fromVSWhere)).
		Int("total", len(instances)).
		Msg("located visual studio instances")

	return instances, nil
}

func (l *Locator) fromVSWhere(ctx context.Context, p *fsops.Prober) ([]core.Instance, error) {
	vswhere := l.paths.VSWherePath()
	if !p.Exists(vswhere) {
		l.log.Debug().Str("path", vswhere).Msg("vswhere.exe not present")
		return nil, nil
	}

	stdout, stderr, err := l.runner.RunCommandWithOutput(ctx, vswhere, VSWhereArgs...)
	if err != nil {
		output := strings.TrimSpace(stdout + stderr)
		return nil, fmt.Errorf("%w: running vswhere.exe failed (exit code %d) with message:\n%s",
			core.ErrLocatorFailed, l.runner.GetExitCode(err), output)
	}

	instances, err := ParseReport(stdout)
	if err != nil {
		return nil, fmt.Errorf("parse vswhere output: %w", err)
	}

	for _, inst := range instances {
		l.log.Debug().
			Str("root", inst.RootPath).
			Str("version", inst.Version).
			Str("release", string(inst.ReleaseType)).
			Msg("vswhere instance")
	}

	return instances, nil
}

// ParseReport extracts instances from vswhere's XML report
func ParseReport(output string) ([]core.Instance, error) {
	var instances []core.Instance

	for _, block := range tagscan.FindAll(output, "<instance>", "</instance>") {
		release := core.ReleaseLegacy

		flag, ok, err := tagscan.FindAtMostOne(block, "<isPrerelease>", "</isPrerelease>")
		if err != nil {
			return nil, err
		}
		if ok {
			switch flag {
			case "0":
				release = core.ReleaseStable
			case "1":
				release = core.ReleasePrerelease
			default:
				return nil, fmt.Errorf("%w: unexpected isPrerelease value %q", core.ErrMalformedReport, flag)
			}
		}

		root, err := tagscan.FindExactlyOne(block, "<installationPath>", "</installationPath>")
		if err != nil {
			return nil, err
		}
		version, err := tagscan.FindExactlyOne(block, "<installationVersion>", "</installationVersion>")
		if err != nil {
			return nil, err
		}

		instances = append(instances, core.Instance{
			RootPath:    root,
			Version:     version,
			ReleaseType: release,
		})
	}

	return instances, nil
}

// fromEnvironment probes the roots implied by VS140COMNTOOLS.
// The variable normally names <root>\Common7\Tools, with or without a trailing
// separator, so both two and three levels up are tried.
func (l *Locator) fromEnvironment(p *fsops.Prober) []core.Instance {
	tools, ok := l.env.LookupEnv(paths.LegacyEnvVar)
	if !ok || tools == "" {
		return nil
	}

	twoUp := filepath.Dir(filepath.Dir(tools))
	threeUp := filepath.Dir(twoUp)

	var instances []core.Instance
	for _, root := range []string{twoUp, threeUp} {
		if inst, ok := legacyInstance(p, root); ok {
			instances = append(instances, inst)
		}
	}
	return instances
}

func (l *Locator) fromDefaultDir(p *fsops.Prober) []core.Instance {
	if inst, ok := legacyInstance(p, l.paths.LegacyRoot()); ok {
		return []core.Instance{inst}
	}
	return nil
}

// legacyInstance accepts root when both cl.exe and vcvarsall.bat are present
func legacyInstance(p *fsops.Prober, root string) (core.Instance, bool) {
	p.Note(root)

	clExe := filepath.Join(root, "VC", "bin", "cl.exe")
	vcvarsall := filepath.Join(root, "VC", "vcvarsall.bat")
	if !p.Exists(clExe) || !p.Exists(vcvarsall) {
		return core.Instance{}, false
	}

	return core.Instance{
		RootPath:    root,
		Version:     LegacyVersion,
		ReleaseType: core.ReleaseLegacy,
	}, true
}
