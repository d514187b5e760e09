package nwin

import (
	"errors"
	"syscall"

	"github.com/lxn/win"
)

type Folders struct {
	ProgramFiles   string
	Desktop        string
	CommonPrograms string
}

func GetFolders() (f Folders, err error) {
	f.ProgramFiles, err = getSpecialDirectory(win.CSIDL_PROGRAM_FILES)
	if err != nil {
		return
	}

	f.Desktop, err = getSpecialDirectory(win.CSIDL_DESKTOPDIRECTORY)
	if err != nil {
		return
	}

	f.CommonPrograms, err = getSpecialDirectory(win.CSIDL_COMMON_PROGRAMS)
	if err != nil {
		return
	}

	return
}

func getSpecialDirectory(csidl win.CSIDL) (string, error) {
	localPathPtr := make([]uint16, 65536+2)
	var hwnd win.HWND
	success := win.SHGetSpecialFolderPath(hwnd, &localPathPtr[0], csidl, true)
	if !success {
		return "", errors.New("Could not get folder path")
	}
	return syscall.UTF16ToString(localPathPtr), nil
}
