//go:build linux

package store

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// FileStore operates on a local filesystem. Attribute calls do not follow
// symbolic links.
type FileStore struct{}

func NewFileStore() (*FileStore, error) {
	return &FileStore{}, nil
}

func (FileStore) Create(name string) error {
	if err := unlink(name); err != nil {
		return err
	}
	fd, err := unix.Open(name, unix.O_CREAT|unix.O_RDONLY|unix.O_CLOEXEC, 0644)
	if err != nil {
		return fmt.Errorf("open(%s, O_CREAT, 0644): %w", name, err)
	}
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close(%d): %w", fd, err)
	}
	return nil
}

func (FileStore) Remove(name string) error {
	return unlink(name)
}

func (FileStore) SetXattr(name string, attr string, value []byte) error {
	if err := unix.Lsetxattr(name, attr, value, 0); err != nil {
		return fmt.Errorf("lsetxattr(%s, %s, ..., %d): %w", name, attr, len(value), err)
	}
	return nil
}

func (FileStore) GetXattr(name string, attr string, dest []byte) (int, error) {
	n, err := unix.Lgetxattr(name, attr, dest)
	if err != nil {
		return 0, fmt.Errorf("lgetxattr(%s, %s, ..., %d): %w", name, attr, len(dest), err)
	}
	return n, nil
}

func unlink(name string) error {
	if err := unix.Unlink(name); err != nil && !errors.Is(err, unix.ENOENT) {
		return fmt.Errorf("unlink(%s): %w", name, err)
	}
	return nil
}
