//go:build !windows

package paths

func knownProgramFilesX86() string {
	return ""
}
