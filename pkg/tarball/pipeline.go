package tarball

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/tinyzimmer/dpu/pkg/log"
	"github.com/tinyzimmer/dpu/pkg/types"
)

// TerminateGrace is how long an external compressor is given to exit after being
// asked to terminate before it is killed.
var TerminateGrace = time.Second

// maxStderr bounds how much compressor stderr is kept for error messages.
const maxStderr = 4096

// process is an external compressor or decompressor wired to the caller through
// os.File handles. It is reaped by a dedicated goroutine so both a normal finish
// and an abort can wait on it.
type process struct {
	argv    []string
	cmd     *exec.Cmd
	stderr  *boundedBuffer
	done    chan struct{}
	waitErr error
}

// startProcess runs argv with the given stdin and stdout. The caller should close
// its own copies of the handles once this returns, the child owns them from then on.
func startProcess(argv []string, stdin, stdout *os.File) (*process, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	p := &process{
		argv:   argv,
		cmd:    cmd,
		stderr: &boundedBuffer{limit: maxStderr},
		done:   make(chan struct{}),
	}
	cmd.Stderr = p.stderr
	setProcAttr(cmd)

	log.Debugf("Starting %q\n", strings.Join(argv, " "))
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %s: %w", argv[0], err)
	}
	go func() {
		p.waitErr = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *process) exited() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// wait blocks until the process exits and returns a *types.PipelineError if it
// exited with a non-zero status.
func (p *process) wait() error {
	<-p.done
	return p.result()
}

// abort stops a process that is no longer wanted. It asks nicely first, and kills the
// process if it has not exited after TerminateGrace. The process is always reaped
// before abort returns. A failure of the process's own making is returned, an exit
// caused by the signal is not.
func (p *process) abort() error {
	if p.exited() {
		return p.result()
	}
	log.Debugf("Terminating %s (pid %d)\n", p.argv[0], p.cmd.Process.Pid)
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		log.Debugf("Unable to signal %s, killing it: %s\n", p.argv[0], err)
		_ = p.cmd.Process.Kill()
	}
	select {
	case <-p.done:
	case <-time.After(TerminateGrace):
		log.Debugf("%s did not exit after %s, killing it\n", p.argv[0], TerminateGrace)
		if err := p.cmd.Process.Kill(); err != nil && !p.exited() {
			log.Warningf("Unable to kill %s (pid %d): %s\n", p.argv[0], p.cmd.Process.Pid, err)
		}
		<-p.done
	}
	if p.signaled() {
		return nil
	}
	return p.result()
}

// signaled reports whether the process was terminated by a signal.
func (p *process) signaled() bool {
	var exitErr *exec.ExitError
	if !errors.As(p.waitErr, &exitErr) {
		return false
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	return ok && status.Signaled()
}

func (p *process) result() error {
	if p.stderr.Len() > 0 {
		log.TailReader(p.argv[0], strings.NewReader(p.stderr.String()))
	}
	if p.waitErr == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(p.waitErr, &exitErr) {
		return &types.PipelineError{
			Command:  p.argv,
			ExitCode: exitErr.ExitCode(),
			Stderr:   p.stderr.String(),
		}
	}
	return fmt.Errorf("waiting for %s: %w", p.argv[0], p.waitErr)
}

// combine preserves a body error when the release that followed it also failed.
// The release failure is logged and kept as a secondary error.
func combine(bodyErr, releaseErr error) error {
	if releaseErr == nil {
		return bodyErr
	}
	if bodyErr == nil {
		return releaseErr
	}
	log.Warningf("Cleanup after %q also failed: %s\n", bodyErr, releaseErr)
	return multierror.Append(bodyErr, releaseErr)
}

// boundedBuffer keeps the first limit bytes written to it and silently drops the rest.
type boundedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *boundedBuffer) Len() int { return b.buf.Len() }

func (b *boundedBuffer) String() string { return b.buf.String() }
