package setup

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cledtz/airplay-setup/data"
	"github.com/cledtz/airplay-setup/localize"
)

type zipEntry struct {
	name     string
	contents string
	mode     os.FileMode
}

func makeZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, e := range entries {
		fh := &zip.FileHeader{
			Name:   e.name,
			Method: zip.Deflate,
		}
		mode := e.mode
		if mode == 0 {
			mode = 0644
		}
		fh.SetMode(mode)

		w, err := zw.CreateHeader(fh)
		if err != nil {
			t.Fatalf("Failed to add %s to zip: %v", e.name, err)
		}
		_, err = w.Write([]byte(e.contents))
		if err != nil {
			t.Fatalf("Failed to write %s to zip: %v", e.name, err)
		}
	}
	err := zw.Close()
	if err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, contents string, mode os.FileMode) {
	t.Helper()

	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	err = os.WriteFile(path, []byte(contents), mode)
	if err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	// WriteFile is subject to umask
	err = os.Chmod(path, mode)
	if err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func newTestLocalizer(t *testing.T) *localize.Localizer {
	t.Helper()

	l, err := localize.NewLocalizer(data.Asset)
	if err != nil {
		t.Fatalf("Failed to create localizer: %v", err)
	}
	return l
}

type completion struct {
	success bool
	message string
}

// recordingReporter keeps everything the installer tells it.
type recordingReporter struct {
	mu          sync.Mutex
	statuses    []string
	progress    []int
	completions []completion
	triggers    []bool
	operations  []string
}

func (r *recordingReporter) ReportStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, text)
}

func (r *recordingReporter) ReportProgress(percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, percent)
}

func (r *recordingReporter) ReportCompletion(success bool, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, completion{success, message})
}

func (r *recordingReporter) SetTriggersEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, enabled)
}

func (r *recordingReporter) SetOperation(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, id)
}

func (r *recordingReporter) lastCompletion(t *testing.T) completion {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.completions) == 0 {
		t.Fatalf("Expected a completion to be reported")
	}
	return r.completions[len(r.completions)-1]
}

func (r *recordingReporter) triggersEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.triggers) == 0 {
		return true
	}
	return r.triggers[len(r.triggers)-1]
}

func (r *recordingReporter) progressValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.progress...)
}

// recordingLinker writes a small file standing in for the shortcut so
// that removal can be observed.
type recordingLinker struct {
	mu    sync.Mutex
	links []LinkParams
	err   error
}

func (l *recordingLinker) CreateLink(params LinkParams) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.links = append(l.links, params)
	return os.WriteFile(params.ShortcutPath, []byte(params.TargetPath), 0644)
}

type fixedPrompter bool

func (p fixedPrompter) Confirm(title string, question string) bool {
	return bool(p)
}
