package setup

import (
	"fmt"
	"log"
	"os"
)

// InstallDir manages the single, fixed installation root. There is no
// version tracking: "installed" means the folder exists.
type InstallDir struct{}

func NewInstallDir() *InstallDir {
	return &InstallDir{}
}

// Exists reports whether path is an existing directory.
func (d *InstallDir) Exists(path string) bool {
	stats, err := os.Stat(path)
	if err != nil {
		return false
	}
	return stats.IsDir()
}

// Prepare wipes path (if it exists) and recreates it empty, so that
// extraction always starts from a clean folder. The previous install is
// gone even if what follows fails.
func (d *InstallDir) Prepare(path string) error {
	if path == "" {
		return newError(KindFilesystem, nil, "internal error: empty install folder")
	}

	if _, err := os.Lstat(path); err == nil {
		log.Printf("delete (%s)/", path)
		err := os.RemoveAll(path)
		if err != nil {
			return newError(KindFilesystem, err, "while removing previous installation")
		}
	}

	err := os.MkdirAll(path, 0755)
	if err != nil {
		return newError(KindFilesystem, err, "while creating install folder")
	}

	log.Printf("(%s) is ready for extraction", path)
	return nil
}

// Remove deletes the install folder and everything in it.
func (d *InstallDir) Remove(path string) error {
	_, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return newError(KindNotInstalled, nil, fmt.Sprintf("nothing installed at (%s)", path))
		}
		return newError(KindFilesystem, err, "while inspecting install folder")
	}

	log.Printf("delete (%s)/", path)
	err = os.RemoveAll(path)
	if err != nil {
		return newError(KindFilesystem, err, "while removing installed files")
	}
	return nil
}
