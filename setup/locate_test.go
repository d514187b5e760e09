package setup

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocate_LexicalOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "readme.txt"), "hi", 0644)
	writeFile(t, filepath.Join(root, "b", "run.exe"), "MZ", 0644)
	writeFile(t, filepath.Join(root, "c.exe"), "MZ", 0644)

	l := NewExecutableLocator()
	got := l.Locate(root)
	expected := filepath.Join(root, "b", "run.exe")
	if got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}

	all := l.All(root)
	if len(all) != 2 {
		t.Fatalf("Expected 2 executables, got %v", all)
	}
	if all[1] != filepath.Join(root, "c.exe") {
		t.Errorf("Expected c.exe second, got %v", all)
	}
}

func TestLocate_FallsBackToRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "readme.txt"), "hi", 0644)

	got := NewExecutableLocator().Locate(root)
	if got != root {
		t.Errorf("Expected root %s, got %s", root, got)
	}
}

func TestLocate_CustomMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "run.exe"), "MZ", 0644)
	writeFile(t, filepath.Join(root, "start.sh"), "#!/bin/sh", 0644)

	l := &ExecutableLocator{
		Match: func(path string, entry fs.DirEntry) bool {
			return strings.HasSuffix(path, ".sh")
		},
	}
	got := l.Locate(root)
	if filepath.Base(got) != "start.sh" {
		t.Errorf("Expected start.sh, got %s", got)
	}
}

func entryFor(t *testing.T, dir string, name string) fs.DirEntry {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Could not list %s: %v", dir, err)
	}
	for _, e := range entries {
		if e.Name() == name {
			return e
		}
	}
	t.Fatalf("No %s in %s", name, dir)
	return nil
}

func TestMatchExecutable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "RUN.EXE"), "MZ", 0644)
	writeFile(t, filepath.Join(dir, "airplay"), "\x7fELF", 0755)
	writeFile(t, filepath.Join(dir, "notes.txt"), "hi", 0644)
	err := os.Mkdir(filepath.Join(dir, "bin.exe"), 0755)
	if err != nil {
		t.Fatalf("Could not create dir: %v", err)
	}

	cases := []struct {
		goos     string
		name     string
		expected bool
	}{
		{"windows", "RUN.EXE", true},
		{"windows", "airplay", false},
		{"windows", "notes.txt", false},
		{"windows", "bin.exe", false},
		{"linux", "RUN.EXE", true},
		{"linux", "airplay", true},
		{"linux", "notes.txt", false},
		{"darwin", "airplay", true},
	}

	for _, c := range cases {
		path := filepath.Join(dir, c.name)
		got := matchExecutable(c.goos, path, entryFor(t, dir, c.name))
		if got != c.expected {
			t.Errorf("matchExecutable(%s, %s) = %v, expected %v", c.goos, c.name, got, c.expected)
		}
	}
}
