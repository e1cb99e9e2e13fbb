package fsops

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Prober performs read-only existence checks and remembers every path it examined.
// The trail is kept in insertion order, duplicates included.
type Prober struct {
	fs       afero.Fs
	examined []string
}

// NewProber creates a Prober over the given filesystem
func NewProber(fs afero.Fs) *Prober {
	return &Prober{fs: fs}
}

// Fs returns the underlying filesystem
func (p *Prober) Fs() afero.Fs {
	return p.fs
}

// Exists records path and reports whether it exists
func (p *Prober) Exists(path string) bool {
	p.Note(path)
	return Exists(p.fs, path)
}

// Note records a path without checking it
func (p *Prober) Note(path string) {
	p.examined = append(p.examined, path)
}

// SubDirs records dir and returns the full paths of its immediate subdirectories,
// sorted by name in descending order. A missing dir yields no entries.
func (p *Prober) SubDirs(dir string) ([]string, error) {
	p.Note(dir)

	if !IsDir(p.fs, dir) {
		return nil, nil
	}

	entries, err := afero.ReadDir(p.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	dirs := make([]string, len(names))
	for i, name := range names {
		dirs[i] = filepath.Join(dir, name)
	}
	return dirs, nil
}

// Examined returns a copy of the examined path trail
func (p *Prober) Examined() []string {
	out := make([]string, len(p.examined))
	copy(out, p.examined)
	return out
}
