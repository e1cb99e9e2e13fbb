// Package testutil builds Visual Studio directory layouts on an in-memory
// filesystem and canned vswhere reports for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

// Touch creates an empty file, including parent directories
func Touch(t testing.TB, fs afero.Fs, path string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(fs, path, nil, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Mkdir creates a directory tree
func Mkdir(t testing.TB, fs afero.Fs, path string) {
	t.Helper()
	if err := fs.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

type (
	// VS2017Layout describes a generation-15 install
	VS2017Layout struct {
		// NoVcvarsall omits VC\Auxiliary\Build\vcvarsall.bat
		NoVcvarsall bool
		// ArchScripts lists the vcvars*.bat names to create beside vcvarsall.bat
		ArchScripts []string
		// Toolchains are the subdirectories of VC\Tools\MSVC
		Toolchains []MSVCToolchain
	}

	// MSVCToolchain is one VC\Tools\MSVC\<version> directory
	MSVCToolchain struct {
		Version      string
		NoDumpbin    bool
		LanguagePack bool
	}

	// VS2015Layout describes a generation-14 or -12 install
	VS2015Layout struct {
		NoVcvarsall  bool
		NoDumpbin    bool
		NoCompiler   bool
		LanguagePack bool
		// ArchScripts are paths relative to VC\bin, e.g. amd64\vcvars64.bat
		ArchScripts []string
	}
)

// VS2017Build returns root\VC\Auxiliary\Build
func VS2017Build(root string) string {
	return filepath.Join(root, "VC", "Auxiliary", "Build")
}

// VS2017Dumpbin returns the dumpbin.exe path for a toolchain version
func VS2017Dumpbin(root, version string) string {
	return filepath.Join(root, "VC", "Tools", "MSVC", version, "bin", "HostX86", "x86", "dumpbin.exe")
}

// WriteVS2017 materializes a generation-15 install under root
func WriteVS2017(t testing.TB, fs afero.Fs, root string, layout VS2017Layout) {
	t.Helper()

	build := VS2017Build(root)
	Mkdir(t, fs, build)
	if !layout.NoVcvarsall {
		Touch(t, fs, filepath.Join(build, "vcvarsall.bat"))
	}
	for _, script := range layout.ArchScripts {
		Touch(t, fs, filepath.Join(build, script))
	}

	Mkdir(t, fs, filepath.Join(root, "VC", "Tools", "MSVC"))
	for _, tc := range layout.Toolchains {
		dumpbin := VS2017Dumpbin(root, tc.Version)
		Mkdir(t, fs, filepath.Dir(dumpbin))
		if !tc.NoDumpbin {
			Touch(t, fs, dumpbin)
		}
		if tc.LanguagePack {
			Mkdir(t, fs, filepath.Join(filepath.Dir(dumpbin), "1033"))
		}
	}
}

// WriteVS2015 materializes a generation-14/12 install under root
func WriteVS2015(t testing.TB, fs afero.Fs, root string, layout VS2015Layout) {
	t.Helper()

	vc := filepath.Join(root, "VC")
	bin := filepath.Join(vc, "bin")
	Mkdir(t, fs, bin)

	if !layout.NoVcvarsall {
		Touch(t, fs, filepath.Join(vc, "vcvarsall.bat"))
	}
	if !layout.NoDumpbin {
		Touch(t, fs, filepath.Join(bin, "dumpbin.exe"))
	}
	if !layout.NoCompiler {
		Touch(t, fs, filepath.Join(bin, "cl.exe"))
	}
	if layout.LanguagePack {
		Mkdir(t, fs, filepath.Join(bin, "1033"))
	}
	for _, script := range layout.ArchScripts {
		Touch(t, fs, filepath.Join(bin, filepath.FromSlash(script)))
	}
}

// VSWhereInstance is one <instance> block of a vswhere report
type VSWhereInstance struct {
	Path    string
	Version string
	// Prerelease is written verbatim as <isPrerelease>; empty omits the element
	Prerelease string
}

// VSWhereXML renders a vswhere -format xml report
func VSWhereXML(instances ...VSWhereInstance) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<instances>\n")
	for _, inst := range instances {
		b.WriteString("  <instance>\n")
		b.WriteString("    <instanceId>" + fmt.Sprintf("%08x", len(inst.Path)) + "</instanceId>\n")
		fmt.Fprintf(&b, "    <installationPath>%s</installationPath>\n", inst.Path)
		fmt.Fprintf(&b, "    <installationVersion>%s</installationVersion>\n", inst.Version)
		if inst.Prerelease != "" {
			fmt.Fprintf(&b, "    <isPrerelease>%s</isPrerelease>\n", inst.Prerelease)
		}
		b.WriteString("  </instance>\n")
	}
	b.WriteString("</instances>\n")
	return b.String()
}
