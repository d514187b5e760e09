package setup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve_TrimsWhitespace(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "  https://example.com/pkg.zip \r\n")
	}))
	defer server.Close()

	r := NewManifestResolver(server.Client(), server.URL)
	url, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %+v", err)
	}
	if url != "https://example.com/pkg.zip" {
		t.Errorf("Expected trimmed URL, got %q", url)
	}
}

func TestResolve_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, " \n\t ")
	}))
	defer server.Close()

	r := NewManifestResolver(server.Client(), server.URL)
	_, err := r.Resolve(context.Background())
	if !IsKind(err, KindEmptyManifest) {
		t.Errorf("Expected empty manifest error, got %v", err)
	}
}

func TestResolve_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	r := NewManifestResolver(server.Client(), server.URL)
	_, err := r.Resolve(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestResolve_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	client := server.Client()
	server.Close()

	r := NewManifestResolver(client, url)
	_, err := r.Resolve(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestResolve_DefaultURL(t *testing.T) {
	r := NewManifestResolver(http.DefaultClient, "")
	if r.URL() != DefaultManifestURL {
		t.Errorf("Expected default manifest URL, got %s", r.URL())
	}
}
