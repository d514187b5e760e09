package native

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/cledtz/airplay-setup/cl"
	"github.com/cledtz/airplay-setup/native/nlinux"
	"github.com/cledtz/airplay-setup/setup"
)

func platformPaths(cli cl.CLI) (setup.Paths, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return setup.Paths{}, errors.New("$HOME is not set")
	}

	// Linux policy: we default to `~/.airplay`
	// If you want it to point elsewhere, that's what symlinks are for!
	entryName := fmt.Sprintf("%s.desktop", cli.AppName)

	return setup.Paths{
		InstallDir:        filepath.Join(home, fmt.Sprintf(".%s", strings.ToLower(cli.AppName))),
		TempArchive:       setup.DefaultTempArchive(cli.AppName),
		DesktopShortcut:   filepath.Join(xdgDesktopDir(home), entryName),
		StartMenuShortcut: filepath.Join(xdgDataHome(home), "applications", entryName),
	}, nil
}

// Typically `~/Desktop`
func xdgDesktopDir(home string) string {
	dir := os.Getenv("XDG_DESKTOP_DIR")
	if dir == "" {
		dir = filepath.Join(home, "Desktop")
	}
	return dir
}

// Typically `~/.local/share`
func xdgDataHome(home string) string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		dir = filepath.Join(home, ".local", "share")
	}
	return dir
}

func platformLinker(cli cl.CLI) setup.Linker {
	return &nlinux.DesktopEntryLinker{
		AppName: cli.AppName,
	}
}

func platformEnter(cli cl.CLI) func() {
	return func() {}
}
