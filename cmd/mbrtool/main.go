package main

import (
	"os"

	"github.com/mbrtool/mbrtool/cmd/mbrtool/cmds"
	"github.com/mbrtool/mbrtool/pkg/version"
)

// Build is the git sha of this binaries build.
var Build string

func main() {
	if Build != "" {
		version.MbrtoolVersion.Build = Build
	}
	if err := cmds.New(false).Execute(); err != nil {
		os.Exit(1)
	}
}
