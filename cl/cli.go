package cl

import "github.com/cledtz/airplay-setup/localize"

// globals, get your globals here!

type CLI struct {
	AppName       string
	VersionString string

	Localizer *localize.Localizer

	Uninstall bool
	Silent    bool
	JSON      bool
	Launch    bool

	// Overrides the manifest address, for tests.
	ManifestURL string
}
