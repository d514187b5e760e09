package native

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/cledtz/airplay-setup/cl"
	"github.com/cledtz/airplay-setup/setup"
)

func platformPaths(cli cl.CLI) (setup.Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return setup.Paths{}, errors.WithMessage(err, "while looking for home directory")
	}

	return setup.Paths{
		InstallDir:        filepath.Join(home, "Library", "Application Support", cli.AppName),
		TempArchive:       setup.DefaultTempArchive(cli.AppName),
		DesktopShortcut:   filepath.Join(home, "Desktop", cli.AppName),
		StartMenuShortcut: filepath.Join("/Applications", cli.AppName),
	}, nil
}

// Shortcuts are plain symlinks on macOS.
func platformLinker(cli cl.CLI) setup.Linker {
	return setup.LinkerFunc(func(params setup.LinkParams) error {
		if _, err := os.Lstat(params.ShortcutPath); err == nil {
			log.Printf("remove (%s)", params.ShortcutPath)
			err = os.Remove(params.ShortcutPath)
			if err != nil {
				return err
			}
		}

		log.Printf("symlink (%s) -> (%s)", params.ShortcutPath, params.TargetPath)
		return os.Symlink(params.TargetPath, params.ShortcutPath)
	})
}

func platformEnter(cli cl.CLI) func() {
	return func() {}
}
