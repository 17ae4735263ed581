//go:build !linux
// +build !linux

package tarball

import "os/exec"

func setProcAttr(cmd *exec.Cmd) {}
