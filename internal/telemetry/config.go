package telemetry

import (
	"os"
)

const defaultArtifactsDir = ".meshedit"

var (
	observeEnabled        bool
	persistReportsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect
	// except the explicit "1" overrides below.
	observeEnabled = os.Getenv("MESHEDIT_OBSERVE_JSON") == "1"
	persistReportsEnabled = os.Getenv("MESHEDIT_PERSIST_REPORTS") == "1"
}

// ObserveEnabled reports whether JSONL emission is enabled.
func ObserveEnabled() bool {
	// Allow tests to enable mid-run via env override.
	if os.Getenv("MESHEDIT_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistReportsEnabled reports whether batch reports are written to the artifacts dir.
func PersistReportsEnabled() bool {
	if os.Getenv("MESHEDIT_PERSIST_REPORTS") == "1" {
		return true
	}
	return persistReportsEnabled
}

// ArtifactsDir is where events and reports are written. Defaults to .meshedit.
func ArtifactsDir() string {
	if d := os.Getenv("MESHEDIT_ARTIFACTS_DIR"); d != "" {
		return d
	}
	return defaultArtifactsDir
}
