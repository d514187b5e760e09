package setup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTempArchive(t *testing.T) {
	expected := filepath.Join(os.TempDir(), "AirPlay.zip")
	if got := DefaultTempArchive("AirPlay"); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
}

func TestTempArchivePath(t *testing.T) {
	base := filepath.Join("tmp", "AirPlay.zip")
	cases := []struct {
		url      string
		expected string
	}{
		{"https://example.com/pkg.zip", base},
		{"https://example.com/pkg.tar.gz", filepath.Join("tmp", "AirPlay.tar.gz")},
		{"https://example.com/dl/AirPlay-1.0.TGZ?sig=abc", filepath.Join("tmp", "AirPlay.tgz")},
		{"https://example.com/download", base},
		{"::not a url", base},
	}
	for _, c := range cases {
		if got := tempArchivePath(base, c.url); got != c.expected {
			t.Errorf("tempArchivePath(%q) = %s, expected %s", c.url, got, c.expected)
		}
	}
}
