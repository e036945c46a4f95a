package fsops

import (
	"os"

	"github.com/petasbytes/go-meshedit/internal/safety"
)

// ReadFile reads a file addressed by a relative path under the sandbox read root.
// Policy violations are returned as safety.ToolError.
func ReadFile(relPath string) ([]byte, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return nil, err
	}

	absPath, err := safety.ValidateRelPath(readRoot, relPath)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() {
		return nil, safety.ToolError{Code: safety.CodeNotAFile, Message: "path is a directory"}
	}
	return os.ReadFile(absPath)
}
