//go:build linux
// +build linux

package tarball

import (
	"os/exec"
	"syscall"
)

// setProcAttr makes the kernel kill the compressor if dpu dies without
// getting a chance to reap it.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL}
}
