package fsops

import (
	"os"
	"path/filepath"

	"github.com/petasbytes/go-meshedit/internal/safety"
)

// WriteFile writes data to a file addressed by a relative path under the sandbox
// write root, creating parent directories as needed.
func WriteFile(relPath string, data []byte) error {
	_, writeRoot, err := getRoots()
	if err != nil {
		return err
	}

	absPath, err := safety.ValidateWritePath(writeRoot, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(absPath, data, 0o644)
}
