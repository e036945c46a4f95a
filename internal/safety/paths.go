// Package safety provides helpers for sandboxed file access.
package safety

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ToolError is a machine-readable error body, rendered as JSON so it can be
// surfaced unchanged to a model or MCP client.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error returns a compact, single-line JSON string.
func (e ToolError) Error() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Error codes.
const (
	CodeOutsideSandbox = "ERR_PATH_OUTSIDE_SANDBOX"
	CodeDeniedRead     = "ERR_DENIED_READ"
	CodeDeniedWrite    = "ERR_DENIED_WRITE"
	CodeNotAFile       = "ERR_NOT_A_FILE"
)

// Directories nobody reads or writes through the sandbox: VCS metadata and
// the engine's own artifacts (events, reports, audit db).
var deniedDirs = []string{".git", ".meshedit"}

// Basenames never written at any depth.
var deniedWriteNames = map[string]bool{
	"go.mod": true,
	"go.sum": true,
}

// InitSandboxRoot resolves absolute sandbox roots for read and write operations.
// An empty readRoot defaults to the working directory; an empty writeRoot to readRoot.
func InitSandboxRoot(readRoot, writeRoot string) (absRead string, absWrite string, err error) {
	if readRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("getwd: %w", err)
		}
		readRoot = cwd
	}
	if writeRoot == "" {
		writeRoot = readRoot
	}

	readRoot, err = filepath.Abs(readRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(readRoot): %w", err)
	}
	writeRoot, err = filepath.Abs(writeRoot)
	if err != nil {
		return "", "", fmt.Errorf("abs(writeRoot): %w", err)
	}

	// Resolve symlinks where possible so boundary checks are reliable.
	if r, err := filepath.EvalSymlinks(readRoot); err == nil {
		readRoot = r
	}
	if w, err := filepath.EvalSymlinks(writeRoot); err == nil {
		writeRoot = w
	}
	return readRoot, writeRoot, nil
}

// resolve joins relPath under absRoot and returns the resolved candidate and
// its slash-separated path relative to the root.
func resolve(absRoot, relPath string) (string, string, error) {
	if filepath.IsAbs(relPath) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "absolute paths are not allowed"}
	}
	cleaned := filepath.Clean(relPath)
	candidate := filepath.Join(absRoot, cleaned)

	// Resolve the whole candidate if it exists, otherwise its parent, so a
	// symlinked ancestor cannot hide an escape.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if parent, err := filepath.EvalSymlinks(filepath.Dir(candidate)); err == nil {
		candidate = filepath.Join(parent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", "", ToolError{Code: CodeOutsideSandbox, Message: "requested path resolves outside the sandbox root"}
	}
	return candidate, filepath.ToSlash(rel), nil
}

func underDenied(rel string) bool {
	for _, d := range deniedDirs {
		if rel == d || strings.HasPrefix(rel, d+"/") {
			return true
		}
	}
	return false
}

// ValidateRelPath resolves relPath against absRoot for reading and returns an
// absolute path inside the sandbox. Violations are returned as ToolError.
func ValidateRelPath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDenied(rel) {
		return "", ToolError{Code: CodeDeniedRead, Message: "reads under .git/ or .meshedit/ are not allowed"}
	}
	return candidate, nil
}

// ValidateWritePath resolves relPath against absRoot for writing. In addition to
// the read rules it denies module files at any depth.
func ValidateWritePath(absRoot, relPath string) (string, error) {
	candidate, rel, err := resolve(absRoot, relPath)
	if err != nil {
		return "", err
	}
	if underDenied(rel) {
		return "", ToolError{Code: CodeDeniedWrite, Message: "writes under .git/ or .meshedit/ are not allowed"}
	}
	if rel == "." || deniedWriteNames[filepath.Base(candidate)] {
		return "", ToolError{Code: CodeDeniedWrite, Message: fmt.Sprintf("writes to %s are not allowed", filepath.Base(relPath))}
	}
	return candidate, nil
}
