package native

// The Core type is where platform-specific actions are
// implemented, often using cross-platform facilities (but not always).
type Core interface {
	// Downloads the latest package and replaces any existing
	// installation with it, then creates shortcuts
	Install() error

	// Asks for confirmation, then removes shortcuts and
	// the install folder
	Uninstall() error

	// Logs the error with its stack trace and exits afterwards.
	ErrorDialog(err error)
}
