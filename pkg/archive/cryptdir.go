package archive

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
	"github.com/arthur-debert/dotfiles/pkg/output"
)

// Archive and encryption suffixes
const (
	TarSuffix = ".tar.gz"
	GPGSuffix = ".gpg"
)

// CryptDir turns a path into path.tar.gz.gpg and back. Each step deletes
// its input once it succeeds; a deleted input is not restored if a later
// step fails. A failing step removes its partial output and keeps its
// input.
type CryptDir struct {
	Encrypter Encrypter
	Reporter  *output.Reporter
}

// Encrypt compresses path to path.tar.gz, encrypts that to
// path.tar.gz.gpg for recipient and returns the final path.
func (c *CryptDir) Encrypt(path, recipient string) (string, error) {
	if recipient == "" {
		return "", errors.New(errors.ErrInvalidInput, "cannot encrypt directory without a recipient")
	}

	logger := logging.GetLogger("archive.cryptdir")
	done := logging.LogOperationStart(logger, "encrypt "+path)
	defer done()

	path = filepath.Clean(path)
	tarball := path + TarSuffix
	encrypted := tarball + GPGSuffix

	c.Reporter.Step("Compressing %s", path)
	if err := Compress(path, tarball); err != nil {
		return "", err
	}
	c.Reporter.Transfer(path, tarball)
	if err := c.remove(path); err != nil {
		return "", err
	}

	c.Reporter.Step("Encrypting %s", tarball)
	if err := c.Encrypter.Encrypt(tarball, encrypted, recipient); err != nil {
		c.discard(encrypted)
		return "", err
	}
	c.Reporter.Transfer(tarball, encrypted)
	if err := c.remove(tarball); err != nil {
		return "", err
	}

	c.Reporter.Done()
	return encrypted, nil
}

// Decrypt reverses Encrypt: path must end in .tar.gz.gpg. The archive is
// extracted next to it and the restored path is returned.
func (c *CryptDir) Decrypt(path string) (string, error) {
	path = filepath.Clean(path)
	if !strings.HasSuffix(path, TarSuffix+GPGSuffix) {
		return "", errors.Newf(errors.ErrInvalidInput, "%s does not end in %s%s", path, TarSuffix, GPGSuffix)
	}

	logger := logging.GetLogger("archive.cryptdir")
	done := logging.LogOperationStart(logger, "decrypt "+path)
	defer done()

	tarball := strings.TrimSuffix(path, GPGSuffix)
	restored := strings.TrimSuffix(tarball, TarSuffix)

	c.Reporter.Step("Decrypting %s", path)
	if err := c.Encrypter.Decrypt(path, tarball); err != nil {
		c.discard(tarball)
		return "", err
	}
	c.Reporter.Transfer(path, tarball)
	if err := c.remove(path); err != nil {
		return "", err
	}

	c.Reporter.Step("Extracting %s", tarball)
	if err := Extract(tarball, filepath.Dir(restored)); err != nil {
		return "", err
	}
	c.Reporter.Transfer(tarball, restored)
	if err := c.remove(tarball); err != nil {
		return "", err
	}

	c.Reporter.Done()
	return restored, nil
}

func (c *CryptDir) remove(path string) error {
	c.Reporter.Step("Removing %s", path)
	if err := os.RemoveAll(path); err != nil {
		return errors.Wrapf(err, errors.ErrRemove, "failed to remove %s", path)
	}
	c.Reporter.Detail("removed %s", path)
	return nil
}

// discard drops the partial output of a failed step.
func (c *CryptDir) discard(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger := logging.GetLogger("archive.cryptdir")
		logger.Warn().Err(err).Str("path", path).Msg("could not remove partial output")
	}
}
