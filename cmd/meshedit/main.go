package main

import (
	"os"

	"github.com/petasbytes/go-meshedit/cmd/meshedit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
