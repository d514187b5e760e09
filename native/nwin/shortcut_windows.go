package nwin

import (
	"fmt"
	"os"
	"path/filepath"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/pkg/errors"
)

type ShortcutSettings struct {
	ShortcutFilePath string
	TargetPath       string
	Description      string
	IconLocation     string
	WorkingDirectory string
}

// CreateShortcut creates a windows shortcut with the given settings,
// through WScript.Shell. COM must be initialized by the caller.
func CreateShortcut(settings ShortcutSettings) error {
	if !filepath.IsAbs(settings.ShortcutFilePath) {
		return fmt.Errorf("Shortcut file path is not absolute: %q", settings.ShortcutFilePath)
	}

	dir := filepath.Dir(settings.ShortcutFilePath)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	shellObject, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return errors.WithMessage(err, "while creating WScript.Shell")
	}
	defer shellObject.Release()

	wshell, err := shellObject.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return err
	}
	defer wshell.Release()

	cs, err := oleutil.CallMethod(wshell, "CreateShortcut", settings.ShortcutFilePath)
	if err != nil {
		return errors.WithMessage(err, "while calling CreateShortcut")
	}
	idispatch := cs.ToIDispatch()
	defer idispatch.Release()

	props := map[string]string{
		"TargetPath":       settings.TargetPath,
		"Description":      settings.Description,
		"WorkingDirectory": settings.WorkingDirectory,
		"IconLocation":     settings.IconLocation,
	}
	for name, value := range props {
		if value == "" {
			continue
		}
		_, err = oleutil.PutProperty(idispatch, name, value)
		if err != nil {
			return errors.WithMessage(err, fmt.Sprintf("while setting shortcut %s", name))
		}
	}

	_, err = oleutil.CallMethod(idispatch, "Save")
	if err != nil {
		return errors.WithMessage(err, "while saving shortcut")
	}
	return nil
}
