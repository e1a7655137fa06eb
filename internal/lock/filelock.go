// Package lock serializes read-modify-write cycles on annotation documents
// with advisory flock(2) locks on a sidecar file.
package lock

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// Suffix is appended to a document path to form its lock file.
const Suffix = ".lock"

// FileLock is a held exclusive lock on a sidecar file.
type FileLock struct {
	file     *os.File
	released bool
	mu       sync.Mutex
}

// PathFor returns the lock file guarding docPath.
func PathFor(docPath string) string {
	return docPath + Suffix
}

func open(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
}

// Acquire obtains an exclusive lock on path, blocking until it is available.
func Acquire(path string) (*FileLock, error) {
	file, err := open(path)
	if err != nil {
		return nil, err
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		file.Close()
		return nil, err
	}

	return &FileLock{file: file}, nil
}

// With runs fn while holding the lock guarding docPath.
func With(docPath string, fn func() error) error {
	fl, err := Acquire(PathFor(docPath))
	if err != nil {
		return err
	}
	defer fl.Release()

	return fn()
}

// Release unlocks and closes the lock file. Safe to call more than once.
func (l *FileLock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil
	}
	l.released = true

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		l.file.Close()
		return err
	}

	return l.file.Close()
}
