package setup

import (
	"log"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// RunningInstance is a process that looks like it was started from the
// install folder.
type RunningInstance struct {
	PID        int
	Executable string
}

// linux truncates process names to this many bytes
const maxCommLength = 15

// FindRunning lists processes whose executable name matches one of the
// given paths' base names.
func FindRunning(exePaths []string) []RunningInstance {
	if len(exePaths) == 0 {
		return nil
	}

	names := make(map[string]struct{})
	for _, p := range exePaths {
		names[strings.ToLower(filepath.Base(p))] = struct{}{}
	}

	processes, err := ps.Processes()
	if err != nil {
		log.Printf("While listing processes: %+v", err)
		return nil
	}

	var found []RunningInstance
	for _, proc := range processes {
		exe := strings.ToLower(proc.Executable())
		if exe == "" {
			continue
		}
		if matchesProcessName(names, exe) {
			found = append(found, RunningInstance{
				PID:        proc.Pid(),
				Executable: proc.Executable(),
			})
		}
	}
	return found
}

func matchesProcessName(names map[string]struct{}, exe string) bool {
	if _, ok := names[exe]; ok {
		return true
	}

	if len(exe) == maxCommLength {
		for name := range names {
			if strings.HasPrefix(name, exe) {
				return true
			}
		}
	}
	return false
}
