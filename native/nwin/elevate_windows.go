package nwin

import "golang.org/x/sys/windows"

// IsElevated returns true if we're running as Administrator. Installing
// to Program Files doesn't work otherwise.
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
