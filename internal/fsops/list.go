package fsops

import (
	"os"
	"sort"
	"strings"

	"github.com/petasbytes/go-meshedit/internal/safety"
)

// ListFiles lists the non-recursive entries of a relative directory under the
// sandbox. Directories are suffixed by "/". When exts is non-empty only files
// with one of those extensions (case-insensitive) are returned.
func ListFiles(relDir string, exts ...string) ([]string, error) {
	readRoot, _, err := getRoots()
	if err != nil {
		return nil, err
	}

	if relDir == "" {
		relDir = "."
	}
	absDir, err := safety.ValidateRelPath(readRoot, relDir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(absDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			if len(exts) == 0 {
				names = append(names, name+"/")
			}
			continue
		}
		if len(exts) > 0 && !hasExt(name, exts) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
