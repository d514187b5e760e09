package setup

import (
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"strings"
)

// MatchFunc decides whether a file found in the install tree is a
// launchable executable.
type MatchFunc func(path string, entry fs.DirEntry) bool

// ExecutableLocator finds the primary launchable file of an install.
type ExecutableLocator struct {
	Match MatchFunc
}

func NewExecutableLocator() *ExecutableLocator {
	return &ExecutableLocator{Match: PlatformExecutable}
}

// PlatformExecutable follows the host convention: a .exe suffix on
// windows, a .exe suffix or any execute bit elsewhere.
func PlatformExecutable(path string, entry fs.DirEntry) bool {
	return matchExecutable(runtime.GOOS, path, entry)
}

func matchExecutable(goos string, path string, entry fs.DirEntry) bool {
	if !entry.Type().IsRegular() {
		return false
	}

	if strings.EqualFold(filepath.Ext(path), ".exe") {
		return true
	}

	if goos == "windows" {
		return false
	}

	info, err := entry.Info()
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// Locate returns the first match in lexical order, or rootDir itself
// when nothing in the tree looks launchable.
func (l *ExecutableLocator) Locate(rootDir string) string {
	matches := l.walk(rootDir, true)
	if len(matches) == 0 {
		log.Printf("No executable found in (%s), falling back to the folder itself", rootDir)
		return rootDir
	}

	log.Printf("Found executable (%s)", matches[0])
	return matches[0]
}

// All returns every match in lexical order.
func (l *ExecutableLocator) All(rootDir string) []string {
	return l.walk(rootDir, false)
}

func (l *ExecutableLocator) walk(rootDir string, firstOnly bool) []string {
	match := l.Match
	if match == nil {
		match = PlatformExecutable
	}

	var matches []string
	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("While scanning (%s): %v", path, err)
			if entry != nil && entry.IsDir() && path != rootDir {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}

		if match(path, entry) {
			matches = append(matches, path)
			if firstOnly {
				return fs.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("While scanning (%s): %v", rootDir, err)
	}

	return matches
}
