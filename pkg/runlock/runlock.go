// Package runlock keeps two installs from running at the same time.
package runlock

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
)

// Lock is an exclusive lock on a file.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock at path without waiting. It fails with ErrLocked
// when another process holds it.
func Acquire(path string) (*Lock, error) {
	logger := logging.GetLogger("runlock")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to create lock directory %s", filepath.Dir(path))
	}

	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to acquire lock %s", path)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrLocked, "another dotfiles run holds %s", path)
	}

	logger.Debug().Str("lock", path).Msg("acquired run lock")
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release unlocks. The lock file is left in place.
func (l *Lock) Release() {
	if err := l.lock.Unlock(); err != nil {
		logger := logging.GetLogger("runlock")
		logger.Warn().Err(err).Str("lock", l.path).Msg("failed to release run lock")
	}
}
