//go:build !windows

package nlinux

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cledtz/airplay-setup/setup"
)

func TestRenderDesktopEntry_File(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "Air Play", "run")
	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		t.Fatalf("Could not create dir: %v", err)
	}
	err = os.WriteFile(target, []byte("#!/bin/sh\n"), 0755)
	if err != nil {
		t.Fatalf("Could not write target: %v", err)
	}

	contents, err := RenderDesktopEntry("AirPlay", setup.LinkParams{
		TargetPath:       target,
		WorkingDirectory: filepath.Dir(target),
		Description:      "AirPlay",
	})
	if err != nil {
		t.Fatalf("RenderDesktopEntry failed: %v", err)
	}

	for _, line := range []string{
		"Type=Application",
		"Name=AirPlay",
		`Exec="` + target + `"`,
		"Path=" + filepath.Dir(target),
	} {
		if !strings.Contains(contents, line+"\n") {
			t.Errorf("Expected %q in:\n%s", line, contents)
		}
	}
}

func TestRenderDesktopEntry_Directory(t *testing.T) {
	dir := t.TempDir()

	contents, err := RenderDesktopEntry("AirPlay", setup.LinkParams{
		TargetPath: dir,
	})
	if err != nil {
		t.Fatalf("RenderDesktopEntry failed: %v", err)
	}
	if !strings.Contains(contents, "Type=Link\n") || !strings.Contains(contents, "URL=file://"+dir+"\n") {
		t.Errorf("Expected a link entry, got:\n%s", contents)
	}
}

func TestQuoteExec(t *testing.T) {
	cases := map[string]string{
		"/home/me/.airplay/run": "/home/me/.airplay/run",
		"/home/me/Air Play/run": `"/home/me/Air Play/run"`,
		"/opt/100%/run":         "/opt/100%%/run",
		`/opt/a"b/run`:          `"/opt/a\\"b/run"`,
	}
	for arg, expected := range cases {
		if got := quoteExec(arg); got != expected {
			t.Errorf("quoteExec(%q) = %q, expected %q", arg, got, expected)
		}
	}
}

func TestCreateLink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "run")
	err := os.WriteFile(target, []byte("#!/bin/sh\n"), 0755)
	if err != nil {
		t.Fatalf("Could not write target: %v", err)
	}

	shortcut := filepath.Join(dir, "Desktop", "AirPlay.desktop")
	dl := &DesktopEntryLinker{AppName: "AirPlay", SkipDatabaseUpdate: true}
	for i := 0; i < 2; i++ {
		err = dl.CreateLink(setup.LinkParams{
			ShortcutPath: shortcut,
			TargetPath:   target,
		})
		if err != nil {
			t.Fatalf("CreateLink #%d failed: %v", i+1, err)
		}
	}

	stats, err := os.Stat(shortcut)
	if err != nil {
		t.Fatalf("Expected desktop entry to exist: %v", err)
	}
	if stats.Mode().Perm() != 0755 {
		t.Errorf("Expected mode 0755, got %v", stats.Mode().Perm())
	}

	contents, err := os.ReadFile(shortcut)
	if err != nil {
		t.Fatalf("Could not read desktop entry: %v", err)
	}
	if !strings.HasPrefix(string(contents), "[Desktop Entry]\n") {
		t.Errorf("Unexpected contents:\n%s", string(contents))
	}
}

func TestCreateLink_MissingTarget(t *testing.T) {
	dir := t.TempDir()
	dl := &DesktopEntryLinker{AppName: "AirPlay", SkipDatabaseUpdate: true}
	err := dl.CreateLink(setup.LinkParams{
		ShortcutPath: filepath.Join(dir, "AirPlay.desktop"),
		TargetPath:   filepath.Join(dir, "missing"),
	})
	if err == nil {
		t.Errorf("Expected missing target to fail")
	}
}
