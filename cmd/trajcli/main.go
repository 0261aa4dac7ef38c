package main

import (
	"github.com/robotalks/trackdrive/pkg/cli/sh"
	"github.com/robotalks/trackdrive/pkg/trackd"

	_ "github.com/robotalks/trackdrive/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	trackd.SetupFlags()
}

func main() {
	sh.Main()
}
