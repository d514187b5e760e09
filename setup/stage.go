package setup

// Stage is the step of an install or uninstall the progress value
// corresponds to.
type Stage int32

const (
	StageIdle Stage = iota
	StageResolvingManifest
	StageDownloading
	StageReplacing
	StageExtracting
	StageCleaningTemp
	StageLocatingExecutable
	StageProvisioning
	StageCheckingInstalled
	StageConfirmingIntent
	StageRemovingShortcuts
	StageRemovingFiles
	StageComplete
	StageFailed
)

var stageNames = map[Stage]string{
	StageIdle:               "idle",
	StageResolvingManifest:  "resolving-manifest",
	StageDownloading:        "downloading",
	StageReplacing:          "replacing",
	StageExtracting:         "extracting",
	StageCleaningTemp:       "cleaning-temp",
	StageLocatingExecutable: "locating-executable",
	StageProvisioning:       "provisioning",
	StageCheckingInstalled:  "checking-installed",
	StageConfirmingIntent:   "confirming-intent",
	StageRemovingShortcuts:  "removing-shortcuts",
	StageRemovingFiles:      "removing-files",
	StageComplete:           "complete",
	StageFailed:             "failed",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Progress milestones, in percent.
const (
	progressResolved   = 10
	progressDownloaded = 70
	progressExtracted  = 85
	progressDesktop    = 92
	progressDone       = 100

	progressDesktopRemoved   = 25
	progressStartMenuRemoved = 50
)

// downloadProgress maps a 0-100 fetch percentage into the
// [progressResolved, progressDownloaded] range.
func downloadProgress(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return progressResolved + percent*(progressDownloaded-progressResolved)/100
}

// extractProgress maps a 0-1 extraction fraction into the
// [progressDownloaded, progressExtracted] range.
func extractProgress(fraction float64) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return progressDownloaded + int(fraction*float64(progressExtracted-progressDownloaded))
}
