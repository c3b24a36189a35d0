package main

import (
	"os"

	"github.com/zjrosen/homestead/cmd"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v0.0.41"
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
