package setup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/itchio/httpkit/timeout"
	"github.com/pkg/errors"

	"github.com/cledtz/airplay-setup/localize"
)

// Reporter is how the installer talks to whatever shows progress. It
// never reads anything back from it.
type Reporter interface {
	ReportStatus(text string)
	ReportProgress(percent int)
	ReportCompletion(success bool, message string)
	// Disables the install/uninstall actions while an operation runs.
	SetTriggersEnabled(enabled bool)
}

// Prompter asks the user a yes/no question. Only uninstall uses it.
type Prompter interface {
	Confirm(title string, question string) bool
}

// OperationTagger is implemented by reporters that want to know which
// operation their messages belong to.
type OperationTagger interface {
	SetOperation(id string)
}

type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, url string, destPath string, onProgress ProgressFunc) error
}

type DirManager interface {
	Exists(path string) bool
	Prepare(path string) error
	Remove(path string) error
}

type Unpacker interface {
	Install(archivePath string, destDir string, onProgress func(fraction float64)) error
}

type Locator interface {
	Locate(rootDir string) string
	All(rootDir string) []string
}

type Shortcuts interface {
	Create(shortcutPath string, targetPath string) error
	RemoveIfExists(shortcutPath string) error
}

// Paths are the fixed locations the installer works with.
type Paths struct {
	InstallDir        string
	TempArchive       string
	DesktopShortcut   string
	StartMenuShortcut string
}

type InstallerSettings struct {
	AppName     string
	Localizer   *localize.Localizer
	Paths       Paths
	ManifestURL string

	Reporter Reporter
	Prompter Prompter
	Linker   Linker

	// Optional, defaults are built from the fields above.
	Client    *http.Client
	Resolver  Resolver
	Fetcher   Fetcher
	Dirs      DirManager
	Unpacker  Unpacker
	Locator   Locator
	Shortcuts Shortcuts
}

// InstallResult describes a successful install.
type InstallResult struct {
	Root   string
	Target string
}

// UninstallOutcome tells apart the ways an uninstall can end.
// UninstallFailed always comes with a non-nil error.
type UninstallOutcome int

const (
	Uninstalled UninstallOutcome = iota
	NotInstalled
	Declined
	UninstallFailed
)

func (o UninstallOutcome) String() string {
	switch o {
	case Uninstalled:
		return "uninstalled"
	case NotInstalled:
		return "not-installed"
	case Declined:
		return "declined"
	case UninstallFailed:
		return "failed"
	}
	return "unknown"
}

// Kind returns the error kind behind a no-op outcome: KindNotInstalled
// or KindUserDeclined. Other outcomes give KindUnknown.
func (o UninstallOutcome) Kind() Kind {
	switch o {
	case NotInstalled:
		return KindNotInstalled
	case Declined:
		return KindUserDeclined
	}
	return KindUnknown
}

// Installer sequences install and uninstall. At most one operation runs
// at a time; it is the only writer of progress and status.
type Installer struct {
	settings InstallerSettings

	resolver  Resolver
	fetcher   Fetcher
	dirs      DirManager
	unpacker  Unpacker
	locator   Locator
	shortcuts Shortcuts

	busy     atomic.Bool
	progress atomic.Int32
	stage    atomic.Int32

	statusLock sync.RWMutex
	status     string

	wg sync.WaitGroup
}

func NewInstaller(settings InstallerSettings) (*Installer, error) {
	if settings.AppName == "" {
		return nil, errors.Errorf("InstallerSettings.AppName cannot be empty")
	}
	if settings.Localizer == nil {
		return nil, errors.Errorf("InstallerSettings.Localizer cannot be nil")
	}
	if settings.Reporter == nil {
		return nil, errors.Errorf("InstallerSettings.Reporter cannot be nil")
	}

	p := settings.Paths
	if p.InstallDir == "" || p.TempArchive == "" || p.DesktopShortcut == "" || p.StartMenuShortcut == "" {
		return nil, errors.Errorf("InstallerSettings.Paths is incomplete: %+v", p)
	}

	client := settings.Client
	if client == nil {
		client = timeout.NewDefaultClient()
	}

	i := &Installer{
		settings:  settings,
		resolver:  settings.Resolver,
		fetcher:   settings.Fetcher,
		dirs:      settings.Dirs,
		unpacker:  settings.Unpacker,
		locator:   settings.Locator,
		shortcuts: settings.Shortcuts,
	}

	if i.resolver == nil {
		i.resolver = NewManifestResolver(client, settings.ManifestURL)
	}
	if i.fetcher == nil {
		i.fetcher = NewPackageFetcher(client)
	}
	if i.dirs == nil {
		i.dirs = NewInstallDir()
	}
	if i.unpacker == nil {
		i.unpacker = NewArchiveInstaller()
	}
	if i.locator == nil {
		i.locator = NewExecutableLocator()
	}
	if i.shortcuts == nil {
		i.shortcuts = NewShortcutProvisioner(settings.Linker, settings.AppName)
	}

	return i, nil
}

// Progress returns the current progress value, in [0, 100].
func (i *Installer) Progress() int {
	return int(i.progress.Load())
}

func (i *Installer) Stage() Stage {
	return Stage(i.stage.Load())
}

func (i *Installer) Status() string {
	i.statusLock.RLock()
	defer i.statusLock.RUnlock()
	return i.status
}

// OnInstallRequested starts an install in the background. It returns
// false if another operation is running.
func (i *Installer) OnInstallRequested() bool {
	if !i.acquire() {
		log.Printf("Install requested while busy, ignoring")
		return false
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer i.release()
		_, err := i.doInstall(context.Background())
		if err != nil {
			log.Printf("Install error: %+v", err)
		}
	}()
	return true
}

// OnUninstallRequested starts an uninstall in the background. It returns
// false if another operation is running.
func (i *Installer) OnUninstallRequested() bool {
	if !i.acquire() {
		log.Printf("Uninstall requested while busy, ignoring")
		return false
	}

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		defer i.release()
		_, err := i.doUninstall(context.Background())
		if err != nil {
			log.Printf("Uninstall error: %+v", err)
		}
	}()
	return true
}

// Wait blocks until background operations are over.
func (i *Installer) Wait() {
	i.wg.Wait()
}

// Install runs a full install and blocks until it's done.
func (i *Installer) Install(ctx context.Context) (*InstallResult, error) {
	if !i.acquire() {
		return nil, ErrBusy
	}
	defer i.release()
	return i.doInstall(ctx)
}

// Uninstall removes shortcuts then installed files, and blocks until
// it's done. Not being installed and declining are not errors.
func (i *Installer) Uninstall(ctx context.Context) (UninstallOutcome, error) {
	if !i.acquire() {
		return UninstallFailed, ErrBusy
	}
	defer i.release()
	return i.doUninstall(ctx)
}

func (i *Installer) acquire() bool {
	if !i.busy.CompareAndSwap(false, true) {
		return false
	}
	i.settings.Reporter.SetTriggersEnabled(false)
	return true
}

func (i *Installer) release() {
	i.settings.Reporter.SetTriggersEnabled(true)
	i.busy.Store(false)
}

func (i *Installer) startOperation(kind string) {
	id := uuid.New().String()
	log.Printf("Starting %s (%s)", kind, id)
	if tagger, ok := i.settings.Reporter.(OperationTagger); ok {
		tagger.SetOperation(id)
	}

	i.progress.Store(0)
	i.settings.Reporter.ReportProgress(0)
}

func (i *Installer) t(key string) string {
	return i.settings.Localizer.T(key, localize.Replacements{"app_name": i.settings.AppName})
}

func (i *Installer) setStatus(text string) {
	i.statusLock.Lock()
	i.status = text
	i.statusLock.Unlock()

	log.Printf("Status: %s", text)
	i.settings.Reporter.ReportStatus(text)
}

func (i *Installer) setStage(s Stage) {
	i.stage.Store(int32(s))
}

// setProgress never lets progress go backwards within an operation.
func (i *Installer) setProgress(percent int) {
	if percent > 100 {
		percent = 100
	}
	for {
		current := i.progress.Load()
		if int32(percent) <= current {
			return
		}
		if i.progress.CompareAndSwap(current, int32(percent)) {
			break
		}
	}
	i.settings.Reporter.ReportProgress(percent)
}

func (i *Installer) doInstall(ctx context.Context) (result *InstallResult, err error) {
	paths := i.settings.Paths
	failedStage := StageIdle

	i.startOperation("install")
	i.setStatus(i.t("setup.status.installing"))

	defer func() {
		if err == nil {
			return
		}

		log.Printf("Install failed during %s: %+v", failedStage, err)
		i.setStage(StageFailed)
		if IsKind(err, KindEmptyManifest) {
			i.setStatus(i.t("setup.status.idle"))
		} else {
			i.setStatus(i.t("setup.status.install_failed"))
		}
		i.settings.Reporter.ReportCompletion(false, i.settings.Localizer.T("setup.message.install_failed", localize.Replacements{
			"app_name": i.settings.AppName,
			"message":  err.Error(),
		}))
	}()

	enter := func(s Stage) {
		failedStage = s
		i.setStage(s)
	}

	enter(StageResolvingManifest)
	i.setStatus(i.t("setup.status.resolving"))
	packageURL, err := i.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	i.setProgress(progressResolved)

	enter(StageDownloading)
	i.setStatus(i.t("setup.status.downloading"))
	archivePath := tempArchivePath(paths.TempArchive, packageURL)
	err = i.download(ctx, packageURL, archivePath)
	if err != nil {
		return nil, err
	}
	i.setProgress(progressDownloaded)

	enter(StageReplacing)
	i.setStatus(i.t("setup.status.extracting"))
	previous := i.locator.All(paths.InstallDir)
	err = i.dirs.Prepare(paths.InstallDir)
	if err != nil {
		return nil, annotateRunning(err, previous)
	}

	enter(StageExtracting)
	err = i.unpacker.Install(archivePath, paths.InstallDir, func(fraction float64) {
		i.setProgress(extractProgress(fraction))
	})
	if err != nil {
		return nil, err
	}
	i.setProgress(progressExtracted)

	enter(StageCleaningTemp)
	CleanTempArchives(archivePath, paths.TempArchive, func(rmErr error) {
		log.Printf("Could not remove temporary archive: %v", rmErr)
		log.Printf("(continuing anyway)")
	})

	enter(StageLocatingExecutable)
	target := i.locator.Locate(paths.InstallDir)

	enter(StageProvisioning)
	i.setStatus(i.t("setup.status.shortcuts"))
	err = i.shortcuts.Create(paths.DesktopShortcut, target)
	if err != nil {
		return nil, err
	}
	i.setProgress(progressDesktop)

	err = i.shortcuts.Create(paths.StartMenuShortcut, target)
	if err != nil {
		return nil, err
	}
	i.setProgress(progressDone)

	i.setStage(StageComplete)
	i.setStatus(i.t("setup.status.install_done"))
	i.settings.Reporter.ReportCompletion(true, i.t("setup.message.install_done"))

	return &InstallResult{
		Root:   paths.InstallDir,
		Target: target,
	}, nil
}

// download runs the fetcher and forwards its progress through a channel
// drained by a goroutine we own. It returns once every event has been
// reported.
func (i *Installer) download(ctx context.Context, url string, archivePath string) error {
	events := make(chan int, 16)
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for percent := range events {
			i.setProgress(downloadProgress(percent))
		}
	}()

	err := i.fetcher.Fetch(ctx, url, archivePath, func(percent int) {
		events <- percent
	})
	close(events)
	<-drained

	return err
}

func (i *Installer) doUninstall(ctx context.Context) (outcome UninstallOutcome, err error) {
	paths := i.settings.Paths

	i.setStage(StageCheckingInstalled)
	if !i.dirs.Exists(paths.InstallDir) {
		log.Printf("%v", newError(KindNotInstalled, nil, fmt.Sprintf("nothing installed at (%s)", paths.InstallDir)))
		i.setStage(StageIdle)
		i.settings.Reporter.ReportCompletion(true, i.t("setup.message.not_installed"))
		return NotInstalled, nil
	}

	i.setStage(StageConfirmingIntent)
	confirmed := false
	if i.settings.Prompter != nil {
		confirmed = i.settings.Prompter.Confirm(
			i.t("setup.uninstall.confirm_title"),
			i.t("setup.uninstall.confirm_question"),
		)
	}
	if !confirmed {
		log.Printf("%v", newError(KindUserDeclined, nil, "uninstall was not confirmed"))
		i.setStage(StageIdle)
		i.settings.Reporter.ReportCompletion(true, i.t("setup.message.uninstall_declined"))
		return Declined, nil
	}

	i.startOperation("uninstall")

	defer func() {
		if err == nil {
			return
		}

		log.Printf("Uninstall failed during %s: %+v", i.Stage(), err)
		i.setStage(StageFailed)
		i.setStatus(i.t("setup.status.uninstall_failed"))
		i.settings.Reporter.ReportCompletion(false, i.settings.Localizer.T("setup.message.uninstall_failed", localize.Replacements{
			"app_name": i.settings.AppName,
			"message":  err.Error(),
		}))
	}()

	i.setStage(StageRemovingShortcuts)
	i.setStatus(i.t("setup.status.removing_shortcuts"))
	err = i.shortcuts.RemoveIfExists(paths.DesktopShortcut)
	if err != nil {
		return UninstallFailed, err
	}
	i.setProgress(progressDesktopRemoved)

	err = i.shortcuts.RemoveIfExists(paths.StartMenuShortcut)
	if err != nil {
		return UninstallFailed, err
	}
	i.setProgress(progressStartMenuRemoved)

	i.setStage(StageRemovingFiles)
	i.setStatus(i.t("setup.status.removing_files"))
	previous := i.locator.All(paths.InstallDir)
	err = i.dirs.Remove(paths.InstallDir)
	if err != nil {
		return UninstallFailed, annotateRunning(err, previous)
	}
	i.setProgress(progressDone)

	i.setStage(StageComplete)
	i.setStatus(i.t("setup.status.uninstall_done"))
	i.settings.Reporter.ReportCompletion(true, i.t("setup.message.uninstall_done"))
	return Uninstalled, nil
}

// annotateRunning adds running instances of previously installed
// executables to filesystem errors, since they usually are the reason
// files can't be deleted.
func annotateRunning(err error, exePaths []string) error {
	if !IsKind(err, KindFilesystem) {
		return err
	}

	running := FindRunning(exePaths)
	if len(running) == 0 {
		return err
	}

	var names []string
	for _, r := range running {
		names = append(names, fmt.Sprintf("%s (pid %d)", r.Executable, r.PID))
	}

	var se *Error
	if errors.As(err, &se) {
		return &Error{
			Kind: se.Kind,
			Err:  errors.WithMessage(se.Err, fmt.Sprintf("still running: %s", strings.Join(names, ", "))),
		}
	}
	return err
}
