package linker

import (
	stderrors "errors"
	"io/fs"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/types"
	"github.com/rs/zerolog"
)

// Installer links one request at a time, backing up whatever is in the way.
type Installer struct {
	run      *types.RunContext
	fs       types.FS
	strategy Strategy
	reporter *output.Reporter
	logger   zerolog.Logger
}

// NewInstaller returns an Installer for one run.
func NewInstaller(run *types.RunContext, fsys types.FS, strategy Strategy, reporter *output.Reporter) *Installer {
	return &Installer{
		run:      run,
		fs:       fsys,
		strategy: strategy,
		reporter: reporter,
		logger:   logging.GetLogger("linker"),
	}
}

// Install makes req.Destination refer to req.Source.
//
// An existing destination is renamed to its backup path first. A missing
// source is skipped without output. A missing destination directory is
// logged as a warning and skipped. A dry run only announces.
func (i *Installer) Install(req types.LinkRequest) (types.LinkOutcome, error) {
	src, dst := req.Source, req.Destination
	logger := i.logger.With().Str("source", src).Str("destination", dst).Logger()

	if _, err := i.fs.Stat(dst); err == nil {
		if err := i.backup(dst); err != nil {
			return types.OutcomeUnknown, err
		}
	} else if !stderrors.Is(err, fs.ErrNotExist) && !i.isLink(dst) {
		return types.OutcomeUnknown, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", dst)
	}

	if i.run.DryRun {
		i.reporter.Action(i.strategy.Label(), src, dst)
		return types.OutcomePlanned, nil
	}

	if _, err := i.fs.Stat(src); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug().Msg("source missing, skipping")
			return types.OutcomeSourceMissing, nil
		}
		return types.OutcomeUnknown, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", src)
	}

	outcome := types.OutcomeLinked
	err := i.strategy.Link(src, dst)
	if stderrors.Is(err, fs.ErrExist) {
		// Only a dangling link gets here: anything else was backed up above.
		logger.Debug().Msg("removing stale entry")
		if rmErr := i.fs.Remove(dst); rmErr != nil {
			return types.OutcomeUnknown, errors.Wrapf(rmErr, errors.ErrRemove, "failed to remove stale %s", dst)
		}
		outcome = types.OutcomeRelinkedStale
		err = i.strategy.Link(src, dst)
	}

	switch {
	case err == nil:
	case stderrors.Is(err, fs.ErrNotExist):
		logger.Warn().Msg("destination directory does not exist, skipping")
		return types.OutcomeDestinationParentMissing, nil
	default:
		code := errors.ErrSymlinkCreate
		if i.strategy.Label() == output.LabelCopying {
			code = errors.ErrCopy
		}
		return types.OutcomeUnknown, errors.Wrapf(err, code, "failed to link %s", req)
	}

	i.reporter.Action(i.strategy.Label(), src, dst)
	logger.Debug().Str("outcome", outcome.String()).Msg("linked")
	return outcome, nil
}

// isLink reports whether path is a symlink. A link whose target cannot be
// resolved (a loop, a file used as a directory) is as broken as a dangling one.
func (i *Installer) isLink(path string) bool {
	info, err := i.fs.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

func (i *Installer) backup(dst string) error {
	backup := i.run.BackupPath(dst)
	if !i.run.DryRun {
		if err := i.fs.Rename(dst, backup); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "failed to back up %s", dst).
				WithDetail("backup", backup)
		}
	}
	i.reporter.Backup(dst, backup)
	return nil
}
