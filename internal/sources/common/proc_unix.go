//go:build unix

package common

import (
	"os"
	"os/exec"
	"syscall"
)

// configureProcess puts the child in its own process group so an interrupt
// reaches the tool's helper processes too.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGINT); err != nil {
			if err == syscall.ESRCH {
				return os.ErrProcessDone
			}
			return cmd.Process.Signal(os.Interrupt)
		}
		return nil
	}
}

// killGroup SIGKILLs whatever is left of the child's process group, such
// as helpers that ignored the interrupt.
func killGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
