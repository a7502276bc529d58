//go:build unix

package fqio

import (
	"os/exec"
	"syscall"
)

// detach puts the coprocess in its own process group so a terminal interrupt
// reaches only us and the pipes are still shut down in order.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
