package toolset

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/quantmind-br/vcfind/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	log := zerolog.New(io.Discard)
	return NewValidator(&log)
}

func vs2017(root string) core.Instance {
	return core.Instance{RootPath: root, Version: "15.9.12345.100", ReleaseType: core.ReleaseStable}
}

func TestValidate_VS2017Complete(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	root := "/vs2017"
	testutil.WriteVS2017(t, fs, root, testutil.VS2017Layout{
		ArchScripts: []string{"vcvars64.bat"},
		Toolchains:  []testutil.MSVCToolchain{{Version: "14.16.27023", LanguagePack: true}},
	})

	out := newValidator().Validate(fsops.NewProber(fs), vs2017(root), false)

	require.Len(t, out.Found, 1)
	assert.Nil(t, out.Excluded)
	assert.False(t, out.Halt)

	ts := out.Found[0]
	assert.Equal(t, root, ts.VisualStudioRootPath)
	assert.Equal(t, core.ToolsetV141, ts.Version)
	assert.Equal(t, testutil.VS2017Dumpbin(root, "14.16.27023"), ts.DumpbinPath)
	assert.Equal(t, filepath.Join(testutil.VS2017Build(root), "vcvarsall.bat"), ts.VcvarsallPath)
	assert.Empty(t, ts.VcvarsallOptions)
	assert.Equal(t, []core.ArchOption{{Name: "amd64", Host: core.CPUX64, Target: core.CPUX64}}, ts.SupportedArchitectures)
}

func TestValidate_VS2017DualEmission(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	root := "/vs2017"
	testutil.WriteVS2017(t, fs, root, testutil.VS2017Layout{
		ArchScripts: []string{"vcvars32.bat"},
		Toolchains:  []testutil.MSVCToolchain{{Version: "14.16.27023", LanguagePack: true}},
	})

	out := newValidator().Validate(fsops.NewProber(fs), vs2017(root), true)

	require.Len(t, out.Found, 2)
	v141, v140 := out.Found[0], out.Found[1]

	assert.Equal(t, core.ToolsetV141, v141.Version)
	assert.Empty(t, v141.VcvarsallOptions)

	assert.Equal(t, core.ToolsetV140, v140.Version)
	assert.Equal(t, []string{PinV140Option}, v140.VcvarsallOptions)
	assert.Equal(t, v141.VisualStudioRootPath, v140.VisualStudioRootPath)
	assert.Equal(t, v141.DumpbinPath, v140.DumpbinPath)
	assert.Equal(t, v141.VcvarsallPath, v140.VcvarsallPath)
	assert.Equal(t, v141.SupportedArchitectures, v140.SupportedArchitectures)
}

func TestValidate_VS2017MissingVcvarsall(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{
		NoVcvarsall: true,
		Toolchains:  []testutil.MSVCToolchain{{Version: "14.16.27023", LanguagePack: true}},
	})

	p := fsops.NewProber(fs)
	out := newValidator().Validate(p, vs2017("/vs"), true)

	assert.Empty(t, out.Found)
	assert.Nil(t, out.Excluded)
	assert.Equal(t, []string{filepath.Join(testutil.VS2017Build("/vs"), "vcvarsall.bat")}, p.Examined())
}

func TestValidate_VS2017ArchitectureFlagsAreIndependent(t *testing.T) {
	t.Parallel()

	all := []string{
		"vcvars32.bat", "vcvars64.bat", "vcvarsx86_amd64.bat", "vcvarsx86_arm.bat",
		"vcvarsx86_arm64.bat", "vcvarsamd64_x86.bat", "vcvarsamd64_arm.bat", "vcvarsamd64_arm64.bat",
	}

	tests := []struct {
		name    string
		scripts []string
		want    []core.ArchOption
	}{
		{
			name: "none",
			want: []core.ArchOption{},
		},
		{
			name:    "only x86_amd64",
			scripts: []string{"vcvarsx86_amd64.bat"},
			want:    []core.ArchOption{{Name: "x86_amd64", Host: core.CPUX86, Target: core.CPUX64}},
		},
		{
			name:    "all in fixed order",
			scripts: []string{all[7], all[3], all[0], all[5], all[1], all[6], all[2], all[4]},
			want: []core.ArchOption{
				{Name: "x86", Host: core.CPUX86, Target: core.CPUX86},
				{Name: "amd64", Host: core.CPUX64, Target: core.CPUX64},
				{Name: "x86_amd64", Host: core.CPUX86, Target: core.CPUX64},
				{Name: "x86_arm", Host: core.CPUX86, Target: core.CPUARM},
				{Name: "x86_arm64", Host: core.CPUX86, Target: core.CPUARM64},
				{Name: "amd64_x86", Host: core.CPUX64, Target: core.CPUX86},
				{Name: "amd64_arm", Host: core.CPUX64, Target: core.CPUARM},
				{Name: "amd64_arm64", Host: core.CPUX64, Target: core.CPUARM64},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{
				ArchScripts: tt.scripts,
				Toolchains:  []testutil.MSVCToolchain{{Version: "14.16.27023", LanguagePack: true}},
			})

			out := newValidator().Validate(fsops.NewProber(fs), vs2017("/vs"), false)
			require.Len(t, out.Found, 1)
			assert.Equal(t, tt.want, out.Found[0].SupportedArchitectures)
		})
	}
}

func TestValidate_VS2017PicksNewestToolchainWithDumpbin(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{
		Toolchains: []testutil.MSVCToolchain{
			{Version: "14.10.25017", LanguagePack: true},
			{Version: "14.16.27023", NoDumpbin: true, LanguagePack: true},
			{Version: "14.11.25503", LanguagePack: true},
		},
	})

	out := newValidator().Validate(fsops.NewProber(fs), vs2017("/vs"), false)

	require.Len(t, out.Found, 1)
	assert.Equal(t, testutil.VS2017Dumpbin("/vs", "14.11.25503"), out.Found[0].DumpbinPath)
}

func TestValidate_VS2017MissingLanguagePackExcludesWithoutHalting(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{
		Toolchains: []testutil.MSVCToolchain{
			{Version: "14.16.27023", LanguagePack: false},
			// An older complete toolchain is never consulted.
			{Version: "14.10.25017", LanguagePack: true},
		},
	})

	p := fsops.NewProber(fs)
	out := newValidator().Validate(p, vs2017("/vs"), true)

	assert.Empty(t, out.Found)
	require.NotNil(t, out.Excluded)
	assert.Equal(t, core.ReasonMissingLanguagePack, out.Excluded.Reason)
	assert.Equal(t, core.ToolsetV141, out.Excluded.Toolset.Version)
	assert.Equal(t, "/vs", out.Excluded.Toolset.VisualStudioRootPath)
	assert.False(t, out.Halt)
	assert.NotContains(t, p.Examined(), testutil.VS2017Dumpbin("/vs", "14.10.25017"))
}

func TestValidate_VS2017NoToolchains(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{})

	out := newValidator().Validate(fsops.NewProber(fs), vs2017("/vs"), true)
	assert.Equal(t, Outcome{}, out)
}

func TestValidate_VS2015(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version string
		want    core.ToolsetVersion
	}{
		{"14.0", core.ToolsetV140},
		{"14.0.25420.1", core.ToolsetV140},
		{"12.0.40629.0", core.ToolsetV120},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			testutil.WriteVS2015(t, fs, "/vs", testutil.VS2015Layout{
				LanguagePack: true,
				ArchScripts:  []string{"vcvars32.bat", "amd64/vcvars64.bat", "amd64_arm/vcvarsamd64_arm.bat"},
			})

			inst := core.Instance{RootPath: "/vs", Version: tt.version, ReleaseType: core.ReleaseLegacy}
			out := newValidator().Validate(fsops.NewProber(fs), inst, true)

			require.Len(t, out.Found, 1)
			ts := out.Found[0]
			assert.Equal(t, tt.want, ts.Version)
			assert.Equal(t, filepath.Join("/vs", "VC", "vcvarsall.bat"), ts.VcvarsallPath)
			assert.Equal(t, filepath.Join("/vs", "VC", "bin", "dumpbin.exe"), ts.DumpbinPath)
			assert.Empty(t, ts.VcvarsallOptions)
			assert.Equal(t, []core.ArchOption{
				{Name: "x86", Host: core.CPUX86, Target: core.CPUX86},
				{Name: "x64", Host: core.CPUX64, Target: core.CPUX64},
				{Name: "amd64_arm", Host: core.CPUX64, Target: core.CPUARM},
			}, ts.SupportedArchitectures)
		})
	}
}

func TestValidate_VS2015SkipsSilently(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		layout testutil.VS2015Layout
	}{
		{"no vcvarsall.bat", testutil.VS2015Layout{NoVcvarsall: true, LanguagePack: true}},
		{"no dumpbin.exe", testutil.VS2015Layout{NoDumpbin: true, LanguagePack: true}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			testutil.WriteVS2015(t, fs, "/vs", tt.layout)

			inst := core.Instance{RootPath: "/vs", Version: "14.0", ReleaseType: core.ReleaseLegacy}
			out := newValidator().Validate(fsops.NewProber(fs), inst, false)
			assert.Equal(t, Outcome{}, out)
		})
	}
}

func TestValidate_VS2015MissingLanguagePackHalts(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2015(t, fs, "/vs", testutil.VS2015Layout{})

	inst := core.Instance{RootPath: "/vs", Version: "14.0", ReleaseType: core.ReleaseLegacy}
	out := newValidator().Validate(fsops.NewProber(fs), inst, true)

	assert.Empty(t, out.Found)
	require.NotNil(t, out.Excluded)
	assert.Equal(t, core.ReasonMissingLanguagePack, out.Excluded.Reason)
	assert.Equal(t, core.ToolsetV140, out.Excluded.Toolset.Version)
	assert.True(t, out.Halt)
}

func TestValidate_UnknownGenerationIgnored(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteVS2017(t, fs, "/vs", testutil.VS2017Layout{
		Toolchains: []testutil.MSVCToolchain{{Version: "14.20.27508", LanguagePack: true}},
	})

	p := fsops.NewProber(fs)
	inst := core.Instance{RootPath: "/vs", Version: "16.0.28803.202", ReleaseType: core.ReleaseStable}
	out := newValidator().Validate(p, inst, true)

	assert.Equal(t, Outcome{}, out)
	assert.Empty(t, p.Examined())
}

func TestHasGeneration(t *testing.T) {
	t.Parallel()

	instances := []core.Instance{{Version: "15.9.1"}, {Version: "14.0"}}
	assert.True(t, HasGeneration(instances, "14"))
	assert.True(t, HasGeneration(instances, "15"))
	assert.False(t, HasGeneration(instances, "12"))
	assert.False(t, HasGeneration(nil, "14"))
}
