package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ytget/yt-jobtracker/internal/cli"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
