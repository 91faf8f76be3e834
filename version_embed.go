package main

import (
	_ "embed"
	"strings"

	"exifrename/cmd"
)

//go:embed VERSION
var embeddedVersion string

// A version set with -ldflags "-X exifrename/cmd.Version=..." wins over VERSION.
func init() {
	if v := strings.TrimSpace(embeddedVersion); v != "" && cmd.Version == "dev" {
		cmd.Version = v
	}
	cmd.ApplyVersion()
}
