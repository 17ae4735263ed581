package types

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when a caller asks for something that is not
// supported, such as an unknown compression or template kind. It is always raised
// before any file or process is created.
type ConfigurationError struct {
	// The setting that was rejected
	Setting string
	// The offending value
	Value string
	// An optional explanation
	Reason string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Setting, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// PipelineError is returned when an external compressor or decompressor exits
// with a non-zero status.
type PipelineError struct {
	// The command that failed
	Command []string
	// The exit code of the process, -1 if it was killed by a signal
	ExitCode int
	// Whatever the process wrote to stderr (truncated)
	Stderr string
}

func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s exited with %d", strings.Join(e.Command, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// FormatError is returned when the archive framing read from a tarball is invalid.
// Entries yielded before the error remain valid.
type FormatError struct {
	// The archive being read
	Path string
	// The underlying codec error
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed archive %s: %s", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
