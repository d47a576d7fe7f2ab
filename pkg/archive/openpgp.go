package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/logging"
)

// PassphraseEnv holds the passphrase of an encrypted secret key.
const PassphraseEnv = "GNUPG_PASSPHRASE"

// OpenPGP encrypts in process using keyring files.
type OpenPGP struct {
	// PublicKeyring is searched for the recipient
	PublicKeyring string

	// SecretKeyring holds the keys used to decrypt
	SecretKeyring string

	// Passphrase unlocks encrypted secret keys
	Passphrase []byte
}

// Name returns "openpgp"
func (o *OpenPGP) Name() string { return "openpgp" }

// Encrypt encrypts in to every key in the public keyring matching
// recipient by email, name or key id.
func (o *OpenPGP) Encrypt(in, out, recipient string) error {
	keyring, err := loadKeyring(o.PublicKeyring)
	if err != nil {
		return errors.Wrap(err, errors.ErrEncrypt, "failed to load public keyring")
	}
	to := matchRecipient(keyring, recipient)
	if len(to) == 0 {
		return errors.Newf(errors.ErrEncrypt, "no public key for %q in %s", recipient, o.PublicKeyring)
	}

	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", in)
	}
	defer func() { _ = src.Close() }()

	return writeFile(out, errors.ErrEncrypt, func(dst io.Writer) error {
		hints := &openpgp.FileHints{IsBinary: true, FileName: filepath.Base(in)}
		w, err := openpgp.Encrypt(dst, to, nil, hints, nil)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, src); err != nil {
			_ = w.Close()
			return err
		}
		return w.Close()
	})
}

// Decrypt decrypts in with the secret keyring.
func (o *OpenPGP) Decrypt(in, out string) error {
	keyring, err := loadKeyring(o.SecretKeyring)
	if err != nil {
		return errors.Wrap(err, errors.ErrDecrypt, "failed to load secret keyring")
	}

	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", in)
	}
	defer func() { _ = src.Close() }()

	md, err := openpgp.ReadMessage(src, keyring, o.prompt(), nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDecrypt, "failed to decrypt %s", in)
	}

	return writeFile(out, errors.ErrDecrypt, func(dst io.Writer) error {
		_, err := io.Copy(dst, md.UnverifiedBody)
		return err
	})
}

// prompt unlocks the candidate keys once with the passphrase.
func (o *OpenPGP) prompt() openpgp.PromptFunction {
	tried := false
	return func(keys []openpgp.Key, symmetric bool) ([]byte, error) {
		if tried || len(o.Passphrase) == 0 {
			return nil, errors.New(errors.ErrDecrypt, "secret key is locked and no valid passphrase was given")
		}
		tried = true
		if symmetric {
			return o.Passphrase, nil
		}
		for _, k := range keys {
			if k.PrivateKey != nil && k.PrivateKey.Encrypted {
				_ = k.PrivateKey.Decrypt(o.Passphrase)
			}
		}
		return nil, nil
	}
}

func loadKeyring(path string) (openpgp.EntityList, error) {
	logger := logging.GetLogger("archive.openpgp")

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
			return nil, seekErr
		}
		keyring, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, err
		}
	}
	if len(keyring) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "keyring %s is empty", path)
	}

	logger.Debug().Str("path", path).Int("keys", len(keyring)).Msg("loaded keyring")
	return keyring, nil
}

func matchRecipient(keyring openpgp.EntityList, recipient string) openpgp.EntityList {
	want := strings.ToLower(strings.TrimPrefix(recipient, "0x"))
	var out openpgp.EntityList
	for _, entity := range keyring {
		if len(want) >= 8 && entity.PrimaryKey != nil && strings.HasSuffix(strings.ToLower(entity.PrimaryKey.KeyIdString()), want) {
			out = append(out, entity)
			continue
		}
		for _, ident := range entity.Identities {
			if ident.UserId == nil {
				continue
			}
			if strings.EqualFold(ident.UserId.Email, recipient) ||
				strings.EqualFold(ident.UserId.Name, recipient) ||
				strings.EqualFold(ident.Name, recipient) {
				out = append(out, entity)
				break
			}
		}
	}
	return out
}

// writeFile creates path exclusively and removes it again if fill fails.
func writeFile(path string, code errors.ErrorCode, fill func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to create %s", path)
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return errors.Wrapf(err, code, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return errors.Wrapf(err, code, "failed to close %s", path)
	}
	return nil
}
