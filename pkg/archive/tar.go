package archive

import (
	"archive/tar"
	"compress/gzip"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/logging"
)

// Compress writes a gzip-compressed tarball of target to archive. Entries
// are named relative to target's directory, so compressing /a/notes stores
// notes/... A relative archive path is taken relative to the current
// directory. It fails with ErrNotFound when target's directory or target
// itself does not exist.
func Compress(target, archive string) error {
	logger := logging.GetLogger("archive.tar")

	archive, err := filepath.Abs(archive)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveCreate, "failed to resolve %s", archive)
	}

	dir, base := filepath.Split(filepath.Clean(target))
	if dir == "" {
		dir = "."
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrNotFound, "no such file or directory: %s", dir)
	}

	return filesystem.WithDir(dir, func() error {
		if _, err := os.Lstat(base); err != nil {
			return errors.Wrapf(err, errors.ErrNotFound, "no such file or directory: %s", target)
		}

		out, err := os.Create(archive)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveCreate, "failed to create %s", archive)
		}

		if err := writeTarball(out, base); err != nil {
			_ = out.Close()
			_ = os.Remove(archive)
			return errors.Wrapf(err, errors.ErrArchiveCreate, "failed to compress %s", target)
		}
		if err := out.Close(); err != nil {
			_ = os.Remove(archive)
			return errors.Wrapf(err, errors.ErrArchiveCreate, "failed to write %s", archive)
		}

		logger.Debug().Str("target", target).Str("archive", archive).Msg("compressed")
		return nil
	})
}

func writeTarball(w io.Writer, root string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		var link string
		if info.Mode()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			link = target
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(path)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

// Extract unpacks archive into dest. Entry names cannot escape dest.
func Extract(archive, dest string) error {
	logger := logging.GetLogger("archive.tar")

	f, err := os.Open(archive)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "archive not found: %s", archive)
		}
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", archive)
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveExtract, "%s is not a gzip archive", archive)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveExtract, "failed to read %s", archive)
		}

		target, err := securejoin.SecureJoin(dest, hdr.Name)
		if err != nil {
			return errors.Wrapf(err, errors.ErrArchiveExtract, "unsafe entry %s", hdr.Name)
		}

		if err := extractEntry(tr, hdr, target); err != nil {
			return errors.Wrapf(err, errors.ErrArchiveExtract, "failed to extract %s", hdr.Name)
		}
	}

	logger.Debug().Str("archive", archive).Str("dest", dest).Msg("extracted")
	return nil
}

func extractEntry(r io.Reader, hdr *tar.Header, target string) error {
	mode := hdr.FileInfo().Mode().Perm()

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, mode|0700)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, r); err != nil {
			_ = out.Close()
			return err
		}
		return out.Close()
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return os.Symlink(hdr.Linkname, target)
	default:
		logger := logging.GetLogger("archive.tar")
		logger.Debug().Str("entry", hdr.Name).Msg("skipping unsupported entry type")
		return nil
	}
}
