package native

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"

	"github.com/cledtz/airplay-setup/cl"
	"github.com/cledtz/airplay-setup/native/ntext"
	"github.com/cledtz/airplay-setup/setup"
)

type nativeCore struct {
	cli   cl.CLI
	paths setup.Paths
}

// NewCore returns a Core for the platform we were built for
func NewCore(cli cl.CLI) (Core, error) {
	paths, err := platformPaths(cli)
	if err != nil {
		return nil, errors.WithMessage(err, "while determining install locations")
	}

	log.Printf("Install dir: %s", paths.InstallDir)
	log.Printf("Temp archive: %s", paths.TempArchive)
	log.Printf("Desktop shortcut: %s", paths.DesktopShortcut)
	log.Printf("Start menu shortcut: %s", paths.StartMenuShortcut)

	return &nativeCore{
		cli:   cli,
		paths: paths,
	}, nil
}

func (nc *nativeCore) newInstaller() (*setup.Installer, error) {
	cli := nc.cli

	var reporter setup.Reporter
	if cli.JSON {
		reporter = setup.NewJSONReporter(os.Stdout)
	} else {
		reporter = ntext.NewReporter()
	}

	manifestURL := cli.ManifestURL
	if manifestURL == "" {
		manifestURL = setup.DefaultManifestURL
	}

	return setup.NewInstaller(setup.InstallerSettings{
		AppName:     cli.AppName,
		Localizer:   cli.Localizer,
		Paths:       nc.paths,
		ManifestURL: manifestURL,
		Reporter:    reporter,
		Prompter:    ntext.NewPrompter(os.Stdin, os.Stderr, cli.Localizer, cli.Silent),
		Linker:      platformLinker(cli),
	})
}

func (nc *nativeCore) Install() error {
	leave := platformEnter(nc.cli)
	defer leave()

	installer, err := nc.newInstaller()
	if err != nil {
		return err
	}

	res, err := installer.Install(context.Background())
	if err != nil {
		return err
	}

	log.Printf("%s is installed in (%s)", nc.cli.AppName, res.Root)

	if nc.cli.Launch {
		log.Printf("Launching (%s)", res.Target)
		err = open.Start(res.Target)
		if err != nil {
			return errors.WithMessage(err, "while launching installed app")
		}
	}
	return nil
}

func (nc *nativeCore) Uninstall() error {
	leave := platformEnter(nc.cli)
	defer leave()

	installer, err := nc.newInstaller()
	if err != nil {
		return err
	}

	outcome, err := installer.Uninstall(context.Background())
	if err != nil {
		return err
	}

	log.Printf("Uninstall outcome: %s", outcome)
	if kind := outcome.Kind(); kind != setup.KindUnknown {
		log.Printf("Nothing was removed (%s)", kind)
	}
	return nil
}

func (nc *nativeCore) ErrorDialog(err error) {
	cli := nc.cli
	log.Printf("%s", cli.Localizer.T("setup.error_dialog.title"))
	log.Printf("%s-setup, %s", cli.AppName, cli.VersionString)
	log.Printf("Fatal error: %+v", err)
	os.Exit(1)
}
