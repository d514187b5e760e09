package native

import (
	"log"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/scjalliance/comshim"

	"github.com/cledtz/airplay-setup/cl"
	"github.com/cledtz/airplay-setup/native/nwin"
	"github.com/cledtz/airplay-setup/setup"
)

func platformPaths(cli cl.CLI) (setup.Paths, error) {
	folders, err := nwin.GetFolders()
	if err != nil {
		return setup.Paths{}, errors.WithMessage(err, "During setup initialization")
	}

	shortcutName := cli.AppName + ".lnk"

	return setup.Paths{
		InstallDir:        filepath.Join(folders.ProgramFiles, cli.AppName),
		TempArchive:       setup.DefaultTempArchive(cli.AppName),
		DesktopShortcut:   filepath.Join(folders.Desktop, shortcutName),
		StartMenuShortcut: filepath.Join(folders.CommonPrograms, shortcutName),
	}, nil
}

func platformLinker(cli cl.CLI) setup.Linker {
	return setup.LinkerFunc(func(params setup.LinkParams) error {
		return nwin.CreateShortcut(nwin.ShortcutSettings{
			ShortcutFilePath: params.ShortcutPath,
			TargetPath:       params.TargetPath,
			Description:      params.Description,
			WorkingDirectory: params.WorkingDirectory,
		})
	})
}

func platformEnter(cli cl.CLI) func() {
	if !nwin.IsElevated() {
		log.Printf("warning: not running as Administrator, writing to Program Files will likely fail")
	}

	comshim.Add(1)
	return func() {
		comshim.Done()
	}
}
