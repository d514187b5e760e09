package setup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/itchio/headway/state"
	"github.com/itchio/headway/united"
	"github.com/itchio/savior"
	"github.com/itchio/savior/zipextractor"
	"github.com/mholt/archiver"
	"github.com/pkg/errors"
)

// ArchiveInstaller unpacks a package into the install folder.
type ArchiveInstaller struct{}

func NewArchiveInstaller() *ArchiveInstaller {
	return &ArchiveInstaller{}
}

// archiveExtensions lists what we know how to unpack, longest first so
// that ".tar.gz" wins over ".gz".
var archiveExtensions = []string{
	".tar.bz2",
	".tar.gz",
	".tar.xz",
	".tbz2",
	".tgz",
	".txz",
	".tar",
	".rar",
	".zip",
}

// ArchiveExtension returns the archive extension of name, or "" if
// it isn't one we support.
func ArchiveExtension(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}

// Install extracts every entry of archivePath into destDir, keeping the
// archive's folder structure. onProgress receives a fraction in [0, 1]
// when the format allows it.
func (a *ArchiveInstaller) Install(archivePath string, destDir string, onProgress func(fraction float64)) error {
	if onProgress == nil {
		onProgress = func(float64) {}
	}

	ext := ArchiveExtension(archivePath)
	switch ext {
	case ".zip":
		return a.installZip(archivePath, destDir, onProgress)
	case "":
		return newError(KindCorruptArchive, nil, fmt.Sprintf("unsupported archive format: (%s)", filepath.Base(archivePath)))
	default:
		return a.installOther(archivePath, destDir, onProgress)
	}
}

func (a *ArchiveInstaller) installZip(archivePath string, destDir string, onProgress func(float64)) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return newError(KindFilesystem, err, "while opening downloaded archive")
	}
	defer archiveFile.Close()

	archiveStats, err := archiveFile.Stat()
	if err != nil {
		return newError(KindFilesystem, err, "while inspecting downloaded archive")
	}

	ex, err := zipextractor.New(archiveFile, archiveStats.Size())
	if err != nil {
		return newError(KindCorruptArchive, err, "while opening zip archive")
	}

	consumer := &state.Consumer{
		OnMessage: func(lvl string, msg string) {
			log.Printf("[%s] %s", lvl, msg)
		},
		OnProgress: onProgress,
	}
	ex.SetConsumer(consumer)

	log.Printf("Extracting %s to (%s)", united.FormatBytes(archiveStats.Size()), destDir)

	sink := &savior.FolderSink{
		Consumer:  consumer,
		Directory: destDir,
	}
	var closeSinkOnce sync.Once
	defer closeSinkOnce.Do(func() {
		sink.Close()
	})

	startTime := time.Now()

	res, err := ex.Resume(nil, sink)
	if err != nil {
		return classifyExtractError(err)
	}

	duration := time.Since(startTime)
	log.Printf("Overall extract speed: %s (%s total)",
		united.FormatBPS(res.Size(), duration),
		united.FormatDuration(duration),
	)

	closeSinkOnce.Do(func() {
		sink.Close()
	})
	onProgress(1)
	return nil
}

func (a *ArchiveInstaller) installOther(archivePath string, destDir string, onProgress func(float64)) error {
	format, err := archiver.ByExtension(archivePath)
	if err != nil {
		return newError(KindCorruptArchive, err, "while picking archive format")
	}

	unarchiver, ok := format.(archiver.Unarchiver)
	if !ok {
		return newError(KindCorruptArchive, nil, fmt.Sprintf("cannot unpack (%s)", filepath.Base(archivePath)))
	}

	log.Printf("Extracting (%s) to (%s) as %T", archivePath, destDir, format)
	startTime := time.Now()

	err = unarchiver.Unarchive(archivePath, destDir)
	if err != nil {
		return classifyExtractError(err)
	}

	log.Printf("Extracted in %s", united.FormatDuration(time.Since(startTime)))
	onProgress(1)
	return nil
}

// classifyExtractError tells I/O failures under the destination apart
// from archives that could not be parsed.
func classifyExtractError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return newError(KindFilesystem, err, "while extracting")
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return newError(KindFilesystem, err, "while extracting")
	}
	return newError(KindCorruptArchive, err, "while extracting")
}
