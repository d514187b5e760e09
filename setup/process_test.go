package setup

import (
	"os"
	"testing"
)

func TestMatchesProcessName(t *testing.T) {
	names := map[string]struct{}{
		"run.exe":                 {},
		"airplayserverhelper.exe": {},
	}

	cases := map[string]bool{
		"run.exe":         true,
		"other.exe":       false,
		"airplayserverhe": true,
		"airplayserver":   false,
	}
	for exe, expected := range cases {
		if got := matchesProcessName(names, exe); got != expected {
			t.Errorf("matchesProcessName(%q) = %v, expected %v", exe, got, expected)
		}
	}
}

func TestFindRunning(t *testing.T) {
	if FindRunning(nil) != nil {
		t.Errorf("Expected nothing for no executables")
	}

	self, err := os.Executable()
	if err != nil {
		t.Skipf("Cannot find own executable: %v", err)
	}

	found := FindRunning([]string{self})
	for _, r := range found {
		if r.PID == os.Getpid() {
			return
		}
	}
	t.Logf("Own process not found among %v (process listing may be restricted)", found)
}
