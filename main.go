package main

import (
	"github.com/mrlokans/reader/internal/cli"
	"github.com/mrlokans/reader/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	cli.Execute(config.NewConfig(), Version+" ("+Commit+")")
}
