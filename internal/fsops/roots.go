package fsops

import (
	"os"
	"sync"

	"github.com/petasbytes/go-meshedit/internal/safety"
)

var (
	rootsOnce    sync.Once
	absReadRoot  string
	absWriteRoot string
	initRootsErr error
)

func initRoots() {
	read := os.Getenv("MESHEDIT_READ_ROOT")
	write := os.Getenv("MESHEDIT_WRITE_ROOT")
	absReadRoot, absWriteRoot, initRootsErr = safety.InitSandboxRoot(read, write)
}

// getRoots returns the cached absolute read/write roots, initialising them once on first use.
func getRoots() (string, string, error) {
	rootsOnce.Do(initRoots)
	return absReadRoot, absWriteRoot, initRootsErr
}

// Roots returns the absolute read and write roots.
func Roots() (read, write string, err error) {
	return getRoots()
}
