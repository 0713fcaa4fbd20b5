//go:build !linux

package store

import (
	"fmt"
	"runtime"
	"syscall"
)

type FileStore struct{ Store }

func NewFileStore() (*FileStore, error) {
	return nil, fmt.Errorf("filesystem store on %s: %w", runtime.GOOS, syscall.ENOTSUP)
}
