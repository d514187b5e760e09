package harness

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// MockServer serves the manifest and the package it points to
type MockServer struct {
	t      *testing.T
	server *httptest.Server

	mu           sync.Mutex
	manifestBody *string
	archive      []byte
	packageHits  int
}

// NewMockServer creates a new mock package server
func NewMockServer(t *testing.T) *MockServer {
	t.Helper()

	ms := &MockServer{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("/manifest", ms.handleManifest)
	mux.HandleFunc("/AirPlay.zip", ms.handlePackage)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ms.t.Logf("Unhandled request: %s", r.URL.Path)
		http.Error(w, "not found", http.StatusNotFound)
	})
	ms.server = httptest.NewServer(mux)

	return ms
}

// URL returns the mock server's URL
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// ManifestURL is what the binary should read the package URL from
func (ms *MockServer) ManifestURL() string {
	return ms.server.URL + "/manifest"
}

// Close shuts down the mock server
func (ms *MockServer) Close() {
	ms.server.Close()
}

// SetManifestBody overrides the manifest contents. By default the
// manifest points at the served archive.
func (ms *MockServer) SetManifestBody(body string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.manifestBody = &body
}

// SetArchive sets the package contents
func (ms *MockServer) SetArchive(data []byte) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.archive = data
}

// PackageHits returns how many times the package was downloaded
func (ms *MockServer) PackageHits() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.packageHits
}

// CreateMockArchive creates a zip archive with a mock executable
// under a top-level folder
func (ms *MockServer) CreateMockArchive(exeName string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	fh := &zip.FileHeader{
		Name:   fmt.Sprintf("AirPlay/%s", exeName),
		Method: zip.Deflate,
	}
	fh.SetMode(0755)
	f, err := w.CreateHeader(fh)
	if err != nil {
		ms.t.Fatalf("Failed to create zip entry: %v", err)
	}

	script := fmt.Sprintf("#!/bin/sh\necho '%s mock executable'\n", exeName)
	if _, err := f.Write([]byte(script)); err != nil {
		ms.t.Fatalf("Failed to write zip content: %v", err)
	}

	rh := &zip.FileHeader{Name: "AirPlay/README.txt", Method: zip.Deflate}
	rh.SetMode(0644)
	r, err := w.CreateHeader(rh)
	if err != nil {
		ms.t.Fatalf("Failed to create zip entry: %v", err)
	}
	if _, err := r.Write([]byte("AirPlay receiver\n")); err != nil {
		ms.t.Fatalf("Failed to write zip content: %v", err)
	}

	if err := w.Close(); err != nil {
		ms.t.Fatalf("Failed to close zip: %v", err)
	}

	return buf.Bytes()
}

func (ms *MockServer) handleManifest(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.t.Logf("Mock server request: %s %s", r.Method, r.URL.Path)
	if ms.manifestBody != nil {
		w.Write([]byte(*ms.manifestBody))
		return
	}
	fmt.Fprintf(w, "%s/AirPlay.zip\n", ms.server.URL)
}

func (ms *MockServer) handlePackage(w http.ResponseWriter, r *http.Request) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.t.Logf("Mock server request: %s %s", r.Method, r.URL.Path)
	if ms.archive == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	ms.packageHits++
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(ms.archive)))
	w.Write(ms.archive)
}
