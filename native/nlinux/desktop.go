package nlinux

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dchest/safefile"
	"github.com/pkg/errors"

	"github.com/cledtz/airplay-setup/setup"
)

const applicationEntry = `[Desktop Entry]
Type=Application
Name={{APPNAME}}
Comment={{COMMENT}}
Exec={{EXEC}}
Path={{WORKDIR}}
Terminal=false
Categories=AudioVideo;
`

const linkEntry = `[Desktop Entry]
Type=Link
Name={{APPNAME}}
Comment={{COMMENT}}
URL=file://{{TARGET}}
`

// DesktopEntryLinker creates freedesktop.org `.desktop` entries as
// shortcuts.
type DesktopEntryLinker struct {
	AppName string

	// Don't run `update-desktop-database` after writing into an
	// `applications` folder. Its failures are only logged anyway.
	SkipDatabaseUpdate bool
}

var _ setup.Linker = (*DesktopEntryLinker)(nil)

func (dl *DesktopEntryLinker) CreateLink(params setup.LinkParams) error {
	contents, err := RenderDesktopEntry(dl.AppName, params)
	if err != nil {
		return err
	}

	err = writeFile(params.ShortcutPath, []byte(contents), 0755)
	if err != nil {
		return errors.WithMessage(err, "writing desktop file")
	}

	dir := filepath.Dir(params.ShortcutPath)
	if !dl.SkipDatabaseUpdate && filepath.Base(dir) == "applications" {
		err = updateDesktopDatabase(dir)
		if err != nil {
			log.Printf("warning: %v", err)
			log.Printf("(continuing anyway)")
		}
	}
	return nil
}

// RenderDesktopEntry returns the contents of a desktop entry that runs
// the target if it's a file, or opens it if it's a folder.
func RenderDesktopEntry(appName string, params setup.LinkParams) (string, error) {
	stats, err := os.Stat(params.TargetPath)
	if err != nil {
		return "", err
	}

	comment := params.Description
	if comment == "" {
		comment = appName
	}

	if stats.IsDir() {
		return interpolate(linkEntry, map[string]string{
			"APPNAME": escapeValue(appName),
			"COMMENT": escapeValue(comment),
			"TARGET":  params.TargetPath,
		})
	}

	workDir := params.WorkingDirectory
	if workDir == "" {
		workDir = filepath.Dir(params.TargetPath)
	}

	return interpolate(applicationEntry, map[string]string{
		"APPNAME": escapeValue(appName),
		"COMMENT": escapeValue(comment),
		"EXEC":    quoteExec(params.TargetPath),
		"WORKDIR": escapeValue(workDir),
	})
}

func interpolate(source string, vars map[string]string) (string, error) {
	res := source
	for k, v := range vars {
		res = strings.Replace(res, "{{"+k+"}}", v, -1)
	}

	if strings.Contains(res, "{{") || strings.Contains(res, "}}") {
		return "", errors.Errorf("internal error: not fully interpolated:\n%s", res)
	}

	return res, nil
}

func escapeValue(s string) string {
	s = strings.Replace(s, `\`, `\\`, -1)
	s = strings.Replace(s, "\n", `\n`, -1)
	return s
}

// quoteExec quotes an Exec= argument when it holds reserved characters.
func quoteExec(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\><~|&;$*?#()`") {
		return escapeValue(strings.Replace(arg, "%", "%%", -1))
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range arg {
		switch r {
		case '"', '`', '$', '\\':
			b.WriteByte('\\')
		}
		if r == '%' {
			b.WriteByte('%')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return escapeValue(b.String())
}

func writeFile(path string, contents []byte, perm os.FileMode) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}

	log.Printf("install (%s)", path)
	f, err := safefile.Create(path, perm)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(contents)
	if err != nil {
		return err
	}

	err = f.Commit()
	if err != nil {
		return err
	}

	// safefile creates the temp file with the umask applied
	return os.Chmod(path, perm)
}

func updateDesktopDatabase(dir string) error {
	if _, err := exec.LookPath("update-desktop-database"); err != nil {
		log.Printf("update-desktop-database not found, skipping")
		return nil
	}

	log.Printf("Updating desktop database for (%s)", dir)
	cmd := exec.Command("update-desktop-database", dir)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err != nil {
		return errors.WithMessage(err, fmt.Sprintf("while updating desktop database in (%s)", dir))
	}
	return nil
}
