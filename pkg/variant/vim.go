// Package variant switches between alternative versions of a dotfile.
package variant

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/types"
)

// Vim rc variants, relative to the vim directory
var (
	VimBase = filepath.Join("rc", "vimrc.vim")
	VimIDE  = filepath.Join("rc", "vimide.vim")
)

// VimLinkName is the link inside the vim directory that vim reads.
const VimLinkName = "vimrc"

// Switch is the result of SwitchVim.
type Switch struct {
	// Link is the vimrc path that was relinked
	Link string
	// Target is the relative variant it points at
	Target string
	// Missing is true when the variant file does not exist yet
	Missing bool
}

// SwitchVim points vimDir/vimrc at the base or IDE variant with a relative
// link. An existing link is replaced; a regular file is never overwritten.
func SwitchVim(fsys types.FS, vimDir string, ide bool) (*Switch, error) {
	logger := logging.GetLogger("variant")

	target := VimBase
	if ide {
		target = VimIDE
	}
	link := filepath.Join(vimDir, VimLinkName)

	info, err := fsys.Lstat(link)
	switch {
	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		if err := fsys.Remove(link); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRemove, "failed to remove %s", link)
		}
	case err == nil:
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a symlink, refusing to replace it", link).
			WithDetail("path", link)
	case !stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to inspect %s", link)
	}

	if err := fsys.Symlink(target, link); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "vim directory %s does not exist", vimDir)
		}
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", link)
	}

	result := &Switch{Link: link, Target: target}
	if _, err := fsys.Stat(link); err != nil {
		result.Missing = true
		logger.Debug().Str("target", target).Msg("variant does not exist yet")
	}
	logger.Info().Str("link", link).Str("target", target).Msg("switched vim variant")
	return result, nil
}
