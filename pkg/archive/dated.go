package archive

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/paths"
	"github.com/arthur-debert/dotfiles/pkg/types"
)

// Layouts of the dated directory and of the archive name prefix
const (
	DateLayout = "2006/01/02"
	TimeLayout = "15:04:05"
)

// DatedArchiver stores tarballs under Dest/YYYY/MM/DD.
type DatedArchiver struct {
	// Dest is the archive root
	Dest string

	// Home is contracted to ~ in the final message
	Home string

	Clock    types.Clock
	Reporter *output.Reporter
}

// Archive compresses target next to itself as HH:MM:SS.<base>.tar.gz,
// then moves the tarball into the dated directory and returns its path.
func (d *DatedArchiver) Archive(target string) (string, error) {
	logger := logging.GetLogger("archive.dated")

	clock := d.Clock
	if clock == nil {
		clock = types.SystemClock{}
	}
	now := clock.Now()

	target = filepath.Clean(target)
	name := now.Format(TimeLayout) + "." + filepath.Base(target) + TarSuffix
	dstDir := filepath.Join(d.Dest, filepath.FromSlash(now.Format(DateLayout)))
	local := filepath.Join(filepath.Dir(target), name)
	final := filepath.Join(dstDir, name)

	existing, created := DirInfo(dstDir)
	if created != "" {
		d.Reporter.Step("Adding %s/ to %s", created, existing)
	}
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrArchiveCreate, "failed to create %s", dstDir)
	}

	d.Reporter.Step("Making archive")
	if err := Compress(target, local); err != nil {
		return "", err
	}
	size := "0 B"
	if info, err := os.Stat(local); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	d.Reporter.Detail("created %s (%s)", name, size)

	d.Reporter.Step("Storing archive")
	if err := move(local, final); err != nil {
		return "", errors.Wrapf(err, errors.ErrArchiveCreate, "failed to store %s", final)
	}
	d.Reporter.Transfer(name, paths.ContractHome(d.Home, final))
	d.Reporter.Done()

	logger.Info().Str("target", target).Str("archive", final).Msg("archived")
	return final, nil
}

// move renames, copying across filesystems when rename cannot.
func move(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := filesystem.Copy(from, to); err != nil {
		return err
	}
	return os.Remove(from)
}

// DirInfo splits path into the longest leading part that exists as a
// directory and the remaining segments that do not. created is empty when
// the whole path exists.
func DirInfo(path string) (existing, created string) {
	path = filepath.Clean(path)
	volume := filepath.VolumeName(path)
	rest := strings.TrimPrefix(path, volume)

	existing = volume
	if filepath.IsAbs(path) {
		existing += string(filepath.Separator)
	}
	segments := strings.Split(strings.Trim(rest, string(filepath.Separator)), string(filepath.Separator))

	for i, seg := range segments {
		if seg == "" {
			continue
		}
		candidate := filepath.Join(existing, seg)
		if existing == "" {
			candidate = seg
		}
		if info, err := os.Stat(candidate); err != nil || !info.IsDir() {
			return orDot(existing), filepath.Join(segments[i:]...)
		}
		existing = candidate
	}
	return orDot(existing), ""
}

func orDot(path string) string {
	if path == "" {
		return "."
	}
	return path
}
