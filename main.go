package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cledtz/airplay-setup/cl"
	"github.com/cledtz/airplay-setup/data"
	"github.com/cledtz/airplay-setup/localize"
	"github.com/cledtz/airplay-setup/native"
)

const appName = "AirPlay"

// set at build time with -ldflags "-X main.version=..."
var version = "head"

// overrides the manifest address, used by integration tests
const manifestURLEnv = "AIRPLAY_SETUP_MANIFEST_URL"

var (
	app = kingpin.New("airplay-setup", fmt.Sprintf("Installs and uninstalls %s", appName))

	uninstallFlag = app.Flag("uninstall", fmt.Sprintf("Uninstall %s", appName)).Bool()
	silentFlag    = app.Flag("silent", "Don't ask questions, answer yes to everything").Bool()
	jsonFlag      = app.Flag("json", "Print progress as JSON lines on stdout").Bool()
	launchFlag    = app.Flag("launch", fmt.Sprintf("Launch %s after a successful install", appName)).Bool()
)

func main() {
	app.Version(version)
	app.VersionFlag.Short('V')
	app.HelpFlag.Short('h')
	kingpin.MustParse(app.Parse(os.Args[1:]))

	setupLogging()
	log.Printf("airplay-setup %s", version)

	localizer, err := localize.NewLocalizer(data.Asset)
	if err != nil {
		log.Fatalf("Could not load strings: %+v", err)
	}
	log.Printf("Available locales: %v", data.Locales())
	localizer.DetectLang()

	cli := cl.CLI{
		AppName:       appName,
		VersionString: version,
		Localizer:     localizer,

		Uninstall: *uninstallFlag,
		Silent:    *silentFlag,
		JSON:      *jsonFlag,
		Launch:    *launchFlag,

		ManifestURL: os.Getenv(manifestURLEnv),
	}
	if cli.ManifestURL != "" {
		log.Printf("Using manifest URL from $%s: %s", manifestURLEnv, cli.ManifestURL)
	}

	nc, err := native.NewCore(cli)
	if err != nil {
		log.Printf("Could not initialize: %+v", err)
		os.Exit(1)
	}

	if cli.Uninstall {
		err = nc.Uninstall()
	} else {
		err = nc.Install()
	}
	if err != nil {
		nc.ErrorDialog(err)
	}
}

func setupLogging() {
	logDir := filepath.Join(os.TempDir(), "airplay-setup")
	err := os.MkdirAll(logDir, 0755)
	if err != nil {
		log.Printf("Could not create log dir, logging to stderr only: %v", err)
		return
	}

	logger := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "airplay-setup.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}

	// stdout is reserved for --json
	log.SetOutput(io.MultiWriter(os.Stderr, logger))
}
