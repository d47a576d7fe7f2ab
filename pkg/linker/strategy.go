package linker

import (
	"runtime"

	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/types"
)

// Strategy creates the destination entry for a source.
type Strategy interface {
	// Label is the progress label announced for a successful link
	Label() output.Label

	// Link makes destination refer to source. It must fail with an error
	// matching fs.ErrExist when destination already exists.
	Link(source, destination string) error
}

// SymlinkStrategy creates symbolic links.
type SymlinkStrategy struct {
	FS types.FS
}

// Label returns LabelSymlink
func (s *SymlinkStrategy) Label() output.Label { return output.LabelSymlink }

// Link creates a symlink at destination pointing to source.
func (s *SymlinkStrategy) Link(source, destination string) error {
	return s.FS.Symlink(source, destination)
}

// CopyStrategy copies the source and hides the copy.
type CopyStrategy struct {
	// Hide marks a path hidden. Failures are logged and ignored.
	Hide func(path string) error
}

// Label returns LabelCopying
func (c *CopyStrategy) Label() output.Label { return output.LabelCopying }

// Link copies a file or a directory tree from source to destination.
func (c *CopyStrategy) Link(source, destination string) error {
	if err := filesystem.Copy(source, destination); err != nil {
		return err
	}

	hideFn := c.Hide
	if hideFn == nil {
		hideFn = hide
	}
	if err := hideFn(destination); err != nil {
		logger := logging.GetLogger("linker.copy")
		logger.Debug().Err(err).Str("path", destination).Msg("could not mark copy hidden")
	}
	return nil
}

// SelectStrategy picks the strategy for a link mode on the given OS.
// LinkModeAuto copies on Windows and symlinks everywhere else.
func SelectStrategy(mode, goos string, fsys types.FS) (Strategy, error) {
	if goos == "" {
		goos = runtime.GOOS
	}
	switch mode {
	case config.LinkModeAuto, "":
		if goos == "windows" {
			return &CopyStrategy{}, nil
		}
		return &SymlinkStrategy{FS: fsys}, nil
	case config.LinkModeSymlink:
		return &SymlinkStrategy{FS: fsys}, nil
	case config.LinkModeCopy:
		return &CopyStrategy{}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown link mode %q", mode)
	}
}
