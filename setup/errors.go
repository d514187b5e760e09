package setup

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the ways an install or uninstall can stop.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindEmptyManifest
	KindWrite
	KindFilesystem
	KindCorruptArchive
	KindShortcut
	KindNotInstalled
	KindUserDeclined
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindEmptyManifest:
		return "empty manifest"
	case KindWrite:
		return "write error"
	case KindFilesystem:
		return "filesystem error"
	case KindCorruptArchive:
		return "corrupt archive"
	case KindShortcut:
		return "shortcut error"
	case KindNotInstalled:
		return "not installed"
	case KindUserDeclined:
		return "user declined"
	}
	return "unknown error"
}

// Error is returned by every stage of the installer. Err keeps the
// original cause so it can be shown verbatim.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
}

func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause see through to the original error.
func (e *Error) Cause() error { return e.Err }

func newError(kind Kind, err error, msg string) *Error {
	if msg != "" {
		if err == nil {
			err = errors.New(msg)
		} else {
			err = errors.WithMessage(err, msg)
		}
	}
	return &Error{Kind: kind, Err: err}
}

// ErrBusy is returned when an operation is requested while another one
// is still running.
var ErrBusy = errors.New("another install or uninstall is in progress")

// KindOf returns the Kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
