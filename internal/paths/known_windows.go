//go:build windows

package paths

import "golang.org/x/sys/windows"

func knownProgramFilesX86() string {
	dir, err := windows.KnownFolderPath(windows.FOLDERID_ProgramFilesX86, 0)
	if err != nil {
		return ""
	}
	return dir
}
