package setup

import (
	"log"
	"os"
)

// CleanTempArchives removes the downloaded package from its temporary
// location. When the package was saved next to base under another
// extension, base itself is removed too, since an earlier run may have
// left it there. Symlinks and folders are never removed.
func CleanTempArchives(archivePath string, base string, warn func(error)) {
	toRemove := []string{archivePath}
	if base != "" && base != archivePath {
		toRemove = append(toRemove, base)
	}

	for _, fullPath := range toRemove {
		info, err := os.Lstat(fullPath)
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			log.Printf("skipping non-file: %s", fullPath)
			continue
		}
		log.Printf("remove (%s)", fullPath)
		if err := os.Remove(fullPath); err != nil {
			warn(err)
		}
	}
}
