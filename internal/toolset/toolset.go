// Package toolset decides which toolsets a Visual Studio instance provides.
//
// Layouts differ per generation:
//
//	15     VC\Auxiliary\Build\vcvarsall.bat, VC\Tools\MSVC\<ver>\bin\HostX86\x86\dumpbin.exe
//	14, 12 VC\vcvarsall.bat, VC\bin\dumpbin.exe
//
// In both cases a toolset only counts when the English language pack (a 1033
// directory beside dumpbin.exe) is installed.
package toolset

import (
	"path/filepath"

	"github.com/quantmind-br/vcfind/internal/core"
	"github.com/quantmind-br/vcfind/internal/fsops"
	"github.com/rs/zerolog"
)

const (
	vcvarsallBat = "vcvarsall.bat"
	dumpbinExe   = "dumpbin.exe"
	englishLCID  = "1033"

	// PinV140Option makes a VS2017 vcvarsall.bat select the v140 toolchain
	PinV140Option = "-vcvars_ver=14.0"
)

type archScript struct {
	script string
	option core.ArchOption
}

// vs2017ArchScripts live beside vcvarsall.bat, in probe order
var vs2017ArchScripts = []archScript{
	{"vcvars32.bat", core.ArchOption{Name: "x86", Host: core.CPUX86, Target: core.CPUX86}},
	{"vcvars64.bat", core.ArchOption{Name: "amd64", Host: core.CPUX64, Target: core.CPUX64}},
	{"vcvarsx86_amd64.bat", core.ArchOption{Name: "x86_amd64", Host: core.CPUX86, Target: core.CPUX64}},
	{"vcvarsx86_arm.bat", core.ArchOption{Name: "x86_arm", Host: core.CPUX86, Target: core.CPUARM}},
	{"vcvarsx86_arm64.bat", core.ArchOption{Name: "x86_arm64", Host: core.CPUX86, Target: core.CPUARM64}},
	{"vcvarsamd64_x86.bat", core.ArchOption{Name: "amd64_x86", Host: core.CPUX64, Target: core.CPUX86}},
	{"vcvarsamd64_arm.bat", core.ArchOption{Name: "amd64_arm", Host: core.CPUX64, Target: core.CPUARM}},
	{"vcvarsamd64_arm64.bat", core.ArchOption{Name: "amd64_arm64", Host: core.CPUX64, Target: core.CPUARM64}},
}

// vs2015ArchScripts are relative to VC\bin, in probe order
var vs2015ArchScripts = []archScript{
	{"vcvars32.bat", core.ArchOption{Name: "x86", Host: core.CPUX86, Target: core.CPUX86}},
	{filepath.Join("amd64", "vcvars64.bat"), core.ArchOption{Name: "x64", Host: core.CPUX64, Target: core.CPUX64}},
	{filepath.Join("x86_amd64", "vcvarsx86_amd64.bat"), core.ArchOption{Name: "x86_amd64", Host: core.CPUX86, Target: core.CPUX64}},
	{filepath.Join("x86_arm", "vcvarsx86_arm.bat"), core.ArchOption{Name: "x86_arm", Host: core.CPUX86, Target: core.CPUARM}},
	{filepath.Join("amd64_x86", "vcvarsamd64_x86.bat"), core.ArchOption{Name: "amd64_x86", Host: core.CPUX64, Target: core.CPUX86}},
	{filepath.Join("amd64_arm", "vcvarsamd64_arm.bat"), core.ArchOption{Name: "amd64_arm", Host: core.CPUX64, Target: core.CPUARM}},
}

// Outcome is what validating one instance produced
type Outcome struct {
	Found    []core.Toolset
	Excluded *core.ExcludedToolset
	// Halt stops the caller from examining any further instances
	Halt bool
}

// Validator applies the per-generation completeness rules
type Validator struct {
	log *zerolog.Logger
}

// NewValidator creates a Validator
func NewValidator(log *zerolog.Logger) *Validator {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Validator{log: log}
}

// HasGeneration reports whether any instance has the given major version
func HasGeneration(instances []core.Instance, major string) bool {
	for _, inst := range instances {
		if inst.MajorVersion() == major {
			return true
		}
	}
	return false
}

// Validate examines one instance. v140Available must say whether any
// generation-14 instance exists in the whole candidate set, because a
// complete VS2017 then also provides a pinned v140 toolset.
func (v *Validator) Validate(p *fsops.Prober, inst core.Instance, v140Available bool) Outcome {
	switch major := inst.MajorVersion(); major {
	case "15":
		return v.validateVS2017(p, inst, v140Available)
	case "14":
		return v.validateVS2015(p, inst, core.ToolsetV140)
	case "12":
		return v.validateVS2015(p, inst, core.ToolsetV120)
	default:
		v.log.Debug().Str("root", inst.RootPath).Str("version", inst.Version).Msg("unsupported generation, ignoring")
		return Outcome{}
	}
}

func (v *Validator) validateVS2017(p *fsops.Prober, inst core.Instance, v140Available bool) Outcome {
	vcDir := filepath.Join(inst.RootPath, "VC")

	buildDir := filepath.Join(vcDir, "Auxiliary", "Build")
	vcvarsall := filepath.Join(buildDir, vcvarsallBat)
	if !p.Exists(vcvarsall) {
		v.log.Debug().Str("root", inst.RootPath).Msg("vcvarsall.bat not found, skipping instance")
		return Outcome{}
	}

	archs := probeArchitectures(p, buildDir, vs2017ArchScripts)

	subdirs, err := p.SubDirs(filepath.Join(vcDir, "Tools", "MSVC"))
	if err != nil {
		v.log.Warn().Err(err).Str("root", inst.RootPath).Msg("cannot list MSVC toolchains")
		return Outcome{}
	}

	for _, subdir := range subdirs {
		dumpbin := filepath.Join(subdir, "bin", "HostX86", "x86", dumpbinExe)
		if !p.Exists(dumpbin) {
			continue
		}

		v141 := core.Toolset{
			VisualStudioRootPath:   inst.RootPath,
			DumpbinPath:            dumpbin,
			VcvarsallPath:          vcvarsall,
			Version:                core.ToolsetV141,
			SupportedArchitectures: archs,
		}

		if !p.Exists(filepath.Join(filepath.Dir(dumpbin), englishLCID)) {
			v.log.Debug().Str("toolchain", subdir).Msg("english language pack missing")
			return Outcome{Excluded: &core.ExcludedToolset{Toolset: v141, Reason: core.ReasonMissingLanguagePack}}
		}

		found := []core.Toolset{v141}
		if v140Available {
			v140 := v141
			v140.VcvarsallOptions = []string{PinV140Option}
			v140.Version = core.ToolsetV140
			found = append(found, v140)
		}

		v.log.Debug().Str("root", inst.RootPath).Str("toolchain", subdir).Int("toolsets", len(found)).Msg("toolset found")
		return Outcome{Found: found}
	}

	return Outcome{}
}

func (v *Validator) validateVS2015(p *fsops.Prober, inst core.Instance, version core.ToolsetVersion) Outcome {
	vcvarsall := filepath.Join(inst.RootPath, "VC", vcvarsallBat)
	if !p.Exists(vcvarsall) {
		return Outcome{}
	}

	dumpbin := filepath.Join(inst.RootPath, "VC", "bin", dumpbinExe)
	if !p.Exists(dumpbin) {
		return Outcome{}
	}

	archs := probeArchitectures(p, filepath.Join(filepath.Dir(vcvarsall), "bin"), vs2015ArchScripts)

	ts := core.Toolset{
		VisualStudioRootPath:   inst.RootPath,
		DumpbinPath:            dumpbin,
		VcvarsallPath:          vcvarsall,
		Version:                version,
		SupportedArchitectures: archs,
	}

	if !p.Exists(filepath.Join(filepath.Dir(dumpbin), englishLCID)) {
		// Unlike VS2017, a VS2015/2013 without the language pack ends discovery.
		v.log.Debug().Str("root", inst.RootPath).Msg("english language pack missing, halting")
		return Outcome{
			Excluded: &core.ExcludedToolset{Toolset: ts, Reason: core.ReasonMissingLanguagePack},
			Halt:     true,
		}
	}

	v.log.Debug().Str("root", inst.RootPath).Str("version", string(version)).Msg("toolset found")
	return Outcome{Found: []core.Toolset{ts}}
}

func probeArchitectures(p *fsops.Prober, dir string, scripts []archScript) []core.ArchOption {
	archs := []core.ArchOption{}
	for _, s := range scripts {
		if p.Exists(filepath.Join(dir, s.script)) {
			archs = append(archs, s.option)
		}
	}
	return archs
}
