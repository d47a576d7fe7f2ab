package filesystem

import (
	"os"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
)

// WithDir runs fn with dir as the working directory and always restores
// the previous one, also when fn fails. The working directory is process
// wide: WithDir must not be used from concurrent goroutines.
func WithDir(dir string, fn func() error) (err error) {
	saved, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, errors.ErrFileAccess, "failed to read working directory")
	}
	if err := os.Chdir(dir); err != nil {
		return errors.Wrapf(err, errors.ErrFileNotFound, "failed to enter %s", dir)
	}
	defer func() {
		if cerr := os.Chdir(saved); cerr != nil {
			logger := logging.GetLogger("filesystem")
			logger.Error().Err(cerr).Str("dir", saved).Msg("failed to restore working directory")
			if err == nil {
				err = errors.Wrapf(cerr, errors.ErrFileAccess, "failed to restore %s", saved)
			}
		}
	}()

	return fn()
}
