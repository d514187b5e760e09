package harness

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Harness manages the test environment for airplay-setup
type Harness struct {
	t          *testing.T
	binaryPath string
	tempDir    string
	server     *MockServer
}

// Result holds the output from running airplay-setup
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Messages []Message
}

// New creates a new test harness
func New(t *testing.T) *Harness {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "airplay-setup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	h := &Harness{
		t:       t,
		tempDir: tempDir,
	}

	for _, dir := range []string{h.HomeDir(), h.TmpDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	h.buildBinary()
	h.server = NewMockServer(t)

	return h
}

// buildBinary builds airplay-setup for testing
func (h *Harness) buildBinary() {
	h.t.Helper()

	cwd, err := os.Getwd()
	if err != nil {
		h.t.Fatalf("Failed to get working directory: %v", err)
	}

	// Walk up to find go.mod
	projectRoot := cwd
	for {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			h.t.Fatalf("Could not find project root (go.mod)")
		}
		projectRoot = parent
	}

	h.binaryPath = filepath.Join(h.tempDir, "airplay-setup")
	goCache := filepath.Join(os.TempDir(), "airplay-setup-go-cache")

	cmd := exec.Command("go", "build", "-o", h.binaryPath, ".")
	cmd.Dir = projectRoot
	cmd.Env = append(os.Environ(),
		"CGO_ENABLED=0",
		fmt.Sprintf("GOCACHE=%s", goCache),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		h.t.Fatalf("Failed to build binary: %v\nOutput: %s", err, output)
	}
}

// TempDir returns the temporary directory for this test
func (h *Harness) TempDir() string {
	return h.tempDir
}

// HomeDir is $HOME for the binary
func (h *Harness) HomeDir() string {
	return filepath.Join(h.tempDir, "home")
}

// TmpDir is $TMPDIR for the binary
func (h *Harness) TmpDir() string {
	return filepath.Join(h.tempDir, "tmp")
}

// InstallDir is where the binary installs to on linux
func (h *Harness) InstallDir() string {
	return filepath.Join(h.HomeDir(), ".airplay")
}

// DesktopShortcut is the desktop entry on the desktop
func (h *Harness) DesktopShortcut() string {
	return filepath.Join(h.HomeDir(), "Desktop", "AirPlay.desktop")
}

// StartMenuShortcut is the desktop entry in the applications menu
func (h *Harness) StartMenuShortcut() string {
	return filepath.Join(h.HomeDir(), ".local", "share", "applications", "AirPlay.desktop")
}

// TempArchive is where the package is downloaded to
func (h *Harness) TempArchive() string {
	return filepath.Join(h.TmpDir(), "AirPlay.zip")
}

// Server returns the mock server for configuration
func (h *Harness) Server() *MockServer {
	return h.server
}

// Run executes airplay-setup with the given arguments.
// Always injects --silent --json so nothing waits on stdin.
func (h *Harness) Run(args ...string) *Result {
	h.t.Helper()
	return h.RunWithEnv(nil, args...)
}

// RunWithEnv executes airplay-setup with extra environment variables.
func (h *Harness) RunWithEnv(extraEnv map[string]string, args ...string) *Result {
	h.t.Helper()

	fullArgs := append([]string{"--silent", "--json"}, args...)
	cmd := exec.Command(h.binaryPath, fullArgs...)

	env := []string{
		fmt.Sprintf("HOME=%s", h.HomeDir()),
		fmt.Sprintf("TMPDIR=%s", h.TmpDir()),
		fmt.Sprintf("AIRPLAY_SETUP_MANIFEST_URL=%s", h.server.ManifestURL()),
		"LANG=C",
	}

	// Copy minimal required environment variables
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "PATH=") {
			env = append(env, e)
		}
	}

	for k, v := range extraEnv {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}

	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			h.t.Logf("Run error: %v", err)
			result.ExitCode = -1
		}
	}

	result.Messages = ParseMessages(stdout.String())

	return result
}

// ParseMessages extracts JSON messages from stdout
func ParseMessages(stdout string) []Message {
	var messages []Message
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := scanner.Text()
		if msg, ok := ParseMessage(line); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Cleanup removes temporary files and stops the server
func (h *Harness) Cleanup() {
	h.server.Close()
	os.RemoveAll(h.tempDir)
}
