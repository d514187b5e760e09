package setup

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DefaultTempArchive is where the package is downloaded before being
// unpacked.
func DefaultTempArchive(appName string) string {
	return filepath.Join(os.TempDir(), appName+".zip")
}

// tempArchivePath keeps the fixed temp location but swaps its extension
// for the package's one, so the right unpacker gets picked.
func tempArchivePath(base string, packageURL string) string {
	u, err := url.Parse(packageURL)
	if err != nil {
		return base
	}

	ext := ArchiveExtension(u.Path)
	baseExt := ArchiveExtension(base)
	if ext == "" || ext == baseExt {
		return base
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if baseExt != "" {
		stem = base[:len(base)-len(baseExt)]
	}
	return stem + ext
}
