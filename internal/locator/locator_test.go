package locator

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/quantmind-br/vcfind/internal/helpers"
	"github.com/quantmind-br/vcfind/internal/paths"
	"github.com/quantmind-br/vcfind/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pf86 = "/pf86"

func newLocator(runner helpers.CommandRunner, env helpers.Environment) *Locator {
	log := zerolog.New(io.Discard)
	return New(runner, env, paths.NewResolver(pf86, ""), &log)
}

func vswhereRunner(output string) *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return output, "", nil
		},
	}
}

func TestParseReport(t *testing.T) {
	t.Parallel()

	report := testutil.VSWhereXML(
		testutil.VSWhereInstance{Path: `C:\VS\Community`, Version: "15.9.28307.105", Prerelease: "0"},
		testutil.VSWhereInstance{Path: `C:\VS\Preview`, Version: "15.9.28307.200", Prerelease: "1"},
		testutil.VSWhereInstance{Path: `C:\VS14`, Version: "14.0.25420.1"},
	)

	instances, err := ParseReport(report)
	require.NoError(t, err)

	assert.Equal(t, []core.Instance{
		{RootPath: `C:\VS\Community`, Version: "15.9.28307.105", ReleaseType: core.ReleaseStable},
		{RootPath: `C:\VS\Preview`, Version: "15.9.28307.200", ReleaseType: core.ReleasePrerelease},
		{RootPath: `C:\VS14`, Version: "14.0.25420.1", ReleaseType: core.ReleaseLegacy},
	}, instances)
}

func TestParseReport_Empty(t *testing.T) {
	t.Parallel()

	instances, err := ParseReport("<?xml version=\"1.0\"?>\n<instances>\n</instances>\n")
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestParseReport_StructuralErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report string
	}{
		{
			name:   "unknown prerelease literal",
			report: testutil.VSWhereXML(testutil.VSWhereInstance{Path: "/vs", Version: "15.0", Prerelease: "yes"}),
		},
		{
			name:   "missing installation path",
			report: "<instance><installationVersion>15.0</installationVersion></instance>",
		},
		{
			name:   "missing version",
			report: "<instance><installationPath>/vs</installationPath></instance>",
		},
		{
			name: "duplicated version",
			report: "<instance><installationPath>/vs</installationPath>" +
				"<installationVersion>15.0</installationVersion><installationVersion>15.1</installationVersion></instance>",
		},
		{
			name: "duplicated prerelease flag",
			report: "<instance><installationPath>/vs</installationPath><installationVersion>15.0</installationVersion>" +
				"<isPrerelease>0</isPrerelease><isPrerelease>0</isPrerelease></instance>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseReport(tt.report)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedReport)
			assert.True(t, core.IsInvariantViolation(err))
		})
	}
}

func TestLocate_VSWhere(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	vswhere := paths.NewResolver(pf86, "").VSWherePath()
	testutil.Touch(t, fs, vswhere)

	runner := vswhereRunner(testutil.VSWhereXML(
		testutil.VSWhereInstance{Path: "/vs2017", Version: "15.9.12345.100", Prerelease: "0"},
	))

	p := fsops.NewProber(fs)
	instances, err := newLocator(runner, helpers.MapEnvironment{}).Locate(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, []core.Instance{
		{RootPath: "/vs2017", Version: "15.9.12345.100", ReleaseType: core.ReleaseStable},
	}, instances)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, append([]string{vswhere}, VSWhereArgs...), runner.Calls[0])
	assert.Contains(t, p.Examined(), vswhere)
}

func TestLocate_VSWhereAbsentIsNotRun(t *testing.T) {
	t.Parallel()

	runner := &helpers.MockCommandRunner{}
	p := fsops.NewProber(afero.NewMemMapFs())

	instances, err := newLocator(runner, helpers.MapEnvironment{}).Locate(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, instances)
	assert.Empty(t, runner.Calls)

	resolver := paths.NewResolver(pf86, "")
	assert.Contains(t, p.Examined(), resolver.VSWherePath())
	assert.Contains(t, p.Examined(), resolver.LegacyRoot())
}

func TestLocate_VSWhereFailureIsFatal(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.Touch(t, fs, paths.NewResolver(pf86, "").VSWherePath())
	// A usable legacy install must not rescue the run.
	testutil.WriteVS2015(t, fs, paths.NewResolver(pf86, "").LegacyRoot(), testutil.VS2015Layout{LanguagePack: true})

	runner := &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "", "Error 0x57: invalid parameter", errors.New("exit status 87")
		},
		GetExitCodeFunc: func(error) int { return 87 },
	}

	instances, err := newLocator(runner, helpers.MapEnvironment{}).Locate(context.Background(), fsops.NewProber(fs))
	require.Error(t, err)
	assert.Nil(t, instances)
	assert.ErrorIs(t, err, core.ErrLocatorFailed)
	assert.Contains(t, err.Error(), "invalid parameter")
	assert.Contains(t, err.Error(), "87")
}

func TestLocate_MalformedReportIsFatal(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.Touch(t, fs, paths.NewResolver(pf86, "").VSWherePath())
	runner := vswhereRunner(testutil.VSWhereXML(testutil.VSWhereInstance{Path: "/vs", Version: "15.0", Prerelease: "2"}))

	_, err := newLocator(runner, helpers.MapEnvironment{}).Locate(context.Background(), fsops.NewProber(fs))
	assert.ErrorIs(t, err, core.ErrMalformedReport)
}

func TestLocate_EnvironmentVariable(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/", "vs14")
	tools := filepath.Join(root, "Common7", "Tools")

	tests := []struct {
		name  string
		value string
	}{
		{"without trailing separator", tools},
		{"with trailing separator", tools + string(filepath.Separator)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			testutil.WriteVS2015(t, fs, root, testutil.VS2015Layout{})

			env := helpers.MapEnvironment{paths.LegacyEnvVar: tt.value}
			p := fsops.NewProber(fs)
			instances, err := newLocator(&helpers.MockCommandRunner{}, env).Locate(context.Background(), p)
			require.NoError(t, err)

			assert.Equal(t, []core.Instance{
				{RootPath: root, Version: LegacyVersion, ReleaseType: core.ReleaseLegacy},
			}, instances)
			assert.Contains(t, p.Examined(), filepath.Join(root, "VC", "bin", "cl.exe"))
		})
	}
}

func TestLocate_EnvironmentBothDepthsMatch(t *testing.T) {
	t.Parallel()

	// /a/b and /a both look like installs; both are reported.
	fs := afero.NewMemMapFs()
	testutil.WriteVS2015(t, fs, "/a/b", testutil.VS2015Layout{})
	testutil.WriteVS2015(t, fs, "/a", testutil.VS2015Layout{})

	env := helpers.MapEnvironment{paths.LegacyEnvVar: "/a/b/c/d"}
	instances, err := newLocator(&helpers.MockCommandRunner{}, env).Locate(context.Background(), fsops.NewProber(fs))
	require.NoError(t, err)

	require.Len(t, instances, 2)
	assert.Equal(t, "/a/b", instances[0].RootPath)
	assert.Equal(t, "/a", instances[1].RootPath)
}

func TestLocate_LegacyGateNeedsCompilerAndScript(t *testing.T) {
	t.Parallel()

	legacy := paths.NewResolver(pf86, "").LegacyRoot()

	tests := []struct {
		name   string
		layout testutil.VS2015Layout
		want   int
	}{
		{"complete", testutil.VS2015Layout{}, 1},
		{"no cl.exe", testutil.VS2015Layout{NoCompiler: true}, 0},
		{"no vcvarsall.bat", testutil.VS2015Layout{NoVcvarsall: true}, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			testutil.WriteVS2015(t, fs, legacy, tt.layout)

			instances, err := newLocator(&helpers.MockCommandRunner{}, helpers.MapEnvironment{}).
				Locate(context.Background(), fsops.NewProber(fs))
			require.NoError(t, err)
			assert.Len(t, instances, tt.want)
		})
	}
}

func TestLocate_SourcesAreConcatenated(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	resolver := paths.NewResolver(pf86, "")
	testutil.Touch(t, fs, resolver.VSWherePath())
	testutil.WriteVS2015(t, fs, resolver.LegacyRoot(), testutil.VS2015Layout{})

	runner := vswhereRunner(testutil.VSWhereXML(
		testutil.VSWhereInstance{Path: resolver.LegacyRoot(), Version: "14.0.25420.1"},
	))
	env := helpers.MapEnvironment{paths.LegacyEnvVar: filepath.Join(resolver.LegacyRoot(), "Common7", "Tools")}

	instances, err := newLocator(runner, env).Locate(context.Background(), fsops.NewProber(fs))
	require.NoError(t, err)

	// vswhere, environment and default directory all report the same root
	require.Len(t, instances, 3)
	for _, inst := range instances {
		assert.Equal(t, resolver.LegacyRoot(), inst.RootPath)
	}
	assert.Equal(t, "14.0.25420.1", instances[0].Version)
	assert.Equal(t, LegacyVersion, instances[1].Version)
	assert.Equal(t, LegacyVersion, instances[2].Version)
}
