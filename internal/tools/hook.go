package tools

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	dropCachesFile = "/proc/sys/vm/drop_caches"
	postPhase      = "post"
)

// PhaseHook runs between benchmark phases.
type PhaseHook interface {
	Run(phase string) error
}

// Hook optionally flushes and drops the kernel caches and then runs an
// external script with the phase name as its only argument.
type Hook struct {
	Script         string
	SyncCaches     bool
	DropCaches     bool
	DropCachesFile string
}

func NewHook(cfg *Config) *Hook {
	return &Hook{
		Script:         cfg.Script,
		SyncCaches:     cfg.SyncCaches,
		DropCaches:     cfg.DropCaches,
		DropCachesFile: dropCachesFile,
	}
}

// HookError is a script that could not be started or did not exit 0.
// Status is -1 when the script was killed by a signal or never ran.
type HookError struct {
	Script string
	Phase  string
	Status int
	Err    error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hook %s %s: status %d: %v", e.Script, e.Phase, e.Status, e.Err)
	}
	return fmt.Sprintf("hook %s %s: status %d", e.Script, e.Phase, e.Status)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

func (h *Hook) Run(phase string) error {
	if h.SyncCaches {
		unix.Sync()
	}

	if h.DropCaches {
		if err := dropCaches(h.DropCachesFile); err != nil {
			logrus.WithError(err).WithField("errno", errnoOf(err)).Errorf("Failed to drop caches via %s", h.DropCachesFile)
			return err
		}
	}

	status, err := runProcess(h.Script, phase)
	if err != nil || status != 0 {
		hookErr := &HookError{Script: h.Script, Phase: phase, Status: status, Err: err}
		logrus.WithError(hookErr).Error("Phase hook failed")
		return hookErr
	}
	return nil
}

func dropCaches(file string) error {
	f, err := os.OpenFile(file, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	n, err := f.Write([]byte("3"))
	if err == nil && n != 1 {
		err = fmt.Errorf("write(%s): short write of %d bytes", file, n)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// runProcess runs path with args, discarding its output, and blocks until
// it exits. It returns the exit status, or -1 if the process was killed by
// a signal or could not be started.
func runProcess(path string, args ...string) (int, error) {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return -1, err
	}
	defer devNull.Close()

	cmd := exec.Command(path, args...)
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		// ExitCode is -1 for a signaled process.
		return exitErr.ExitCode(), nil
	default:
		return -1, err
	}
}
