package tools

import (
	"errors"
	"fmt"
	"syscall"
)

const maxShownValue = 64

// VerifyError is a read back attribute that does not match the pattern
// it was written with.
type VerifyError struct {
	File     string
	Attr     string
	Expected []byte
	Actual   []byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify failed for %s %s: expected %q (%d bytes), got %q (%d bytes)",
		e.File, e.Attr, shorten(e.Expected), len(e.Expected), shorten(e.Actual), len(e.Actual))
}

func (e *VerifyError) Unwrap() error {
	return syscall.EINVAL
}

func shorten(b []byte) string {
	if len(b) > maxShownValue {
		return string(b[:maxShownValue]) + "..."
	}
	return string(b)
}

// ExitCode maps a run error onto a process exit status: the script's own
// status for hook failures, the errno for system call failures, and 1 for
// everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return 1
	}
	var hookErr *HookError
	if errors.As(err, &hookErr) && hookErr.Status > 0 {
		return hookErr.Status
	}
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	return 1
}

func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
