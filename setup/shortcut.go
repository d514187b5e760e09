package setup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// LinkParams is everything the OS shortcut facility is invoked with.
type LinkParams struct {
	ShortcutPath     string
	TargetPath       string
	WorkingDirectory string
	Description      string
}

// A Linker writes a launch point the way the host OS expects it: a .lnk
// on windows, a desktop entry on linux, a symlink on macOS.
type Linker interface {
	CreateLink(params LinkParams) error
}

// LinkerFunc adapts a function to the Linker interface.
type LinkerFunc func(params LinkParams) error

func (f LinkerFunc) CreateLink(params LinkParams) error {
	return f(params)
}

// ShortcutProvisioner creates and removes launch points.
type ShortcutProvisioner struct {
	linker      Linker
	description string
}

func NewShortcutProvisioner(linker Linker, description string) *ShortcutProvisioner {
	return &ShortcutProvisioner{
		linker:      linker,
		description: description,
	}
}

// Create writes a shortcut at shortcutPath pointing to targetPath,
// replacing whatever was there.
func (sp *ShortcutProvisioner) Create(shortcutPath string, targetPath string) error {
	if !filepath.IsAbs(shortcutPath) {
		return newError(KindShortcut, nil, fmt.Sprintf("shortcut path is not absolute: %q", shortcutPath))
	}

	if sp.linker == nil {
		return newError(KindShortcut, nil, "no shortcut facility available")
	}

	targetStats, err := os.Stat(targetPath)
	if err != nil {
		return newError(KindShortcut, err, "shortcut target is unreachable")
	}

	workingDir := filepath.Dir(targetPath)
	if targetStats.IsDir() {
		workingDir = targetPath
	}

	err = os.MkdirAll(filepath.Dir(shortcutPath), 0755)
	if err != nil {
		return newError(KindShortcut, err, "while creating shortcut folder")
	}

	log.Printf("Creating shortcut (%s) -> (%s)", shortcutPath, targetPath)
	err = sp.linker.CreateLink(LinkParams{
		ShortcutPath:     shortcutPath,
		TargetPath:       targetPath,
		WorkingDirectory: workingDir,
		Description:      sp.description,
	})
	if err != nil {
		return newError(KindShortcut, err, fmt.Sprintf("while creating shortcut (%s)", shortcutPath))
	}
	return nil
}

// RemoveIfExists deletes the shortcut; a missing one is not an error.
func (sp *ShortcutProvisioner) RemoveIfExists(shortcutPath string) error {
	_, err := os.Lstat(shortcutPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("(%s) already gone", shortcutPath)
			return nil
		}
		return newError(KindFilesystem, err, "while inspecting shortcut")
	}

	log.Printf("remove (%s)", shortcutPath)
	err = os.Remove(shortcutPath)
	if err != nil && !os.IsNotExist(err) {
		return newError(KindFilesystem, err, fmt.Sprintf("while removing shortcut (%s)", shortcutPath))
	}
	return nil
}
