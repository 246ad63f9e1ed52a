//go:build !unix

package common

import (
	"os/exec"
)

// configureProcess keeps the default Cancel, which kills the child.
func configureProcess(cmd *exec.Cmd) {}

// killGroup is a no-op; the default Cancel already killed the child.
func killGroup(cmd *exec.Cmd) {}
