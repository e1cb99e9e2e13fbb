package core

// ReleaseType classifies a Visual Studio installation for ranking purposes
type ReleaseType string

const (
	ReleaseStable     ReleaseType = "stable"
	ReleasePrerelease ReleaseType = "prerelease"
	ReleaseLegacy     ReleaseType = "legacy"
)

// Weight returns the preference weight of the release type (higher is preferred)
func (r ReleaseType) Weight() int {
	switch r {
	case ReleaseStable:
		return 3
	case ReleasePrerelease:
		return 2
	case ReleaseLegacy:
		return 1
	default:
		return 0
	}
}

// Instance is a Visual Studio installation candidate that has not been validated yet
type Instance struct {
	RootPath    string      `json:"root_path" yaml:"root_path"`
	Version     string      `json:"version" yaml:"version"`
	ReleaseType ReleaseType `json:"release_type" yaml:"release_type"`
}

// MajorVersion returns the generation tag: the first two characters of the version
func (i Instance) MajorVersion() string {
	if len(i.Version) < 2 {
		return i.Version
	}
	return i.Version[:2]
}

// CPUArchitecture identifies a host or target processor architecture
type CPUArchitecture string

const (
	CPUX86   CPUArchitecture = "x86"
	CPUX64   CPUArchitecture = "x64"
	CPUARM   CPUArchitecture = "arm"
	CPUARM64 CPUArchitecture = "arm64"
)

// ArchOption is one compilation mode a toolset supports.
// Name is the argument vcvarsall.bat expects for that mode.
type ArchOption struct {
	Name   string          `json:"name" yaml:"name"`
	Host   CPUArchitecture `json:"host" yaml:"host"`
	Target CPUArchitecture `json:"target" yaml:"target"`
}

// ToolsetVersion is the platform toolset identifier (v120, v140, v141)
type ToolsetVersion string

const (
	ToolsetV120 ToolsetVersion = "v120"
	ToolsetV140 ToolsetVersion = "v140"
	ToolsetV141 ToolsetVersion = "v141"
)

// Toolset is a validated, usable compiler environment
type Toolset struct {
	VisualStudioRootPath   string         `json:"visual_studio_root_path" yaml:"visual_studio_root_path"`
	DumpbinPath            string         `json:"dumpbin_path" yaml:"dumpbin_path"`
	VcvarsallPath          string         `json:"vcvarsall_path" yaml:"vcvarsall_path"`
	VcvarsallOptions       []string       `json:"vcvarsall_options,omitempty" yaml:"vcvarsall_options,omitempty"`
	Version                ToolsetVersion `json:"version" yaml:"version"`
	SupportedArchitectures []ArchOption   `json:"supported_architectures" yaml:"supported_architectures"`
}

// SupportsArch reports whether the toolset has an architecture option with the given name
func (t Toolset) SupportsArch(name string) bool {
	_, ok := t.Arch(name)
	return ok
}

// Arch looks up an architecture option by name
func (t Toolset) Arch(name string) (ArchOption, bool) {
	for _, opt := range t.SupportedArchitectures {
		if opt.Name == name {
			return opt, true
		}
	}
	return ArchOption{}, false
}

// SetupCommand returns the argument vector that prepares a build environment
// for the given architecture option. The script itself is never run here.
func (t Toolset) SetupCommand(arch string) []string {
	args := make([]string, 0, 2+len(t.VcvarsallOptions))
	args = append(args, t.VcvarsallPath, arch)
	args = append(args, t.VcvarsallOptions...)
	return args
}

// ExclusionReason explains why an otherwise plausible toolset was not accepted
type ExclusionReason string

const (
	ReasonMissingLanguagePack ExclusionReason = "missing language pack"
)

// ExcludedToolset is a toolset that was found on disk but rejected
type ExcludedToolset struct {
	Toolset Toolset         `json:"toolset" yaml:"toolset"`
	Reason  ExclusionReason `json:"reason" yaml:"reason"`
}

// Exit codes
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitInvalidArgs = 2
	ExitNoToolset   = 3
	ExitInvariant   = 4
	ExitInterrupted = 130
)
