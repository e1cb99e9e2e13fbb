// Package discovery drives toolset discovery end to end: locate candidate
// instances, rank them, validate each in order and collect the results.
package discovery

import (
	"context"
	"fmt"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/quantmind-br/vcfind/internal/locator"
	"github.com/quantmind-br/vcfind/internal/ranking"
	"github.com/quantmind-br/vcfind/internal/toolset"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Result is everything one discovery run produced
type Result struct {
	// Instances are the candidates in the order they were validated
	Instances []core.Instance `json:"instances" yaml:"instances"`
	// Found holds usable toolsets, preferred first
	Found []core.Toolset `json:"found" yaml:"found"`
	// Excluded holds toolsets rejected for a documented reason
	Excluded []core.ExcludedToolset `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	// Examined lists every path checked, in the order it was checked
	Examined []string `json:"examined" yaml:"examined"`
}

// Option configures a Discoverer
type Option func(*Discoverer)

// WithProgress registers fn to be called before each ranked instance is validated
func WithProgress(fn func(core.Instance)) Option {
	return func(d *Discoverer) {
		d.progress = fn
	}
}

// Discoverer runs the locate/rank/validate pipeline
type Discoverer struct {
	fs        afero.Fs
	locator   *locator.Locator
	validator *toolset.Validator
	log       *zerolog.Logger
	progress  func(core.Instance)
}

// New creates a Discoverer
func New(fs afero.Fs, loc *locator.Locator, validator *toolset.Validator, log *zerolog.Logger, opts ...Option) *Discoverer {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	d := &Discoverer{
		fs:        fs,
		locator:   loc,
		validator: validator,
		log:       log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover runs one discovery pass. State is never carried between calls.
//
// Invariant violations from vswhere.exe abort immediately. When no toolset is
// usable, the returned error wraps core.ErrNoUsableToolset and the Result is
// still populated so callers can show what was examined.
func (d *Discoverer) Discover(ctx context.Context) (*Result, error) {
	p := fsops.NewProber(d.fs)

	located, err := d.locator.Locate(ctx, p)
	if err != nil {
		return &Result{Examined: p.Examined()}, fmt.Errorf("locate instances: %w", err)
	}

	ranked := ranking.Rank(located)
	v140Available := toolset.HasGeneration(ranked, "14")

	res := &Result{Instances: ranked}

	for _, inst := range ranked {
		if d.progress != nil {
			d.progress(inst)
		}

		d.log.Debug().
			Str("root", inst.RootPath).
			Str("version", inst.Version).
			Str("release", string(inst.ReleaseType)).
			Msg("validating instance")

		out := d.validator.Validate(p, inst, v140Available)
		res.Found = append(res.Found, out.Found...)
		if out.Excluded != nil {
			res.Excluded = append(res.Excluded, *out.Excluded)
		}
		if out.Halt {
			d.log.Debug().Str("root", inst.RootPath).Msg("discovery halted")
			break
		}
	}

	res.Examined = p.Examined()

	d.log.Info().
		Int("instances", len(ranked)).
		Int("found", len(res.Found)).
		Int("excluded", len(res.Excluded)).
		Msg("toolset discovery finished")

	if len(res.Found) == 0 {
		return res, core.ErrNoUsableToolset
	}

	return res, nil
}
