package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prefixEncrypter "encrypts" by prepending a marker.
type prefixEncrypter struct {
	failWith error
}

const marker = "ENC:"

func (p *prefixEncrypter) Name() string { return "prefix" }

func (p *prefixEncrypter) Encrypt(in, out, recipient string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, append([]byte(marker+recipient+":"), data...), 0600); err != nil {
		return err
	}
	return p.failWith
}

func (p *prefixEncrypter) Decrypt(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	_, rest, ok := bytes.Cut(data[len(marker):], []byte(":"))
	if !ok {
		return errors.New(errors.ErrDecrypt, "bad payload")
	}
	if err := os.WriteFile(out, rest, 0600); err != nil {
		return err
	}
	return p.failWith
}

func newCryptDir(enc Encrypter) (*CryptDir, *bytes.Buffer) {
	var buf bytes.Buffer
	return &CryptDir{Encrypter: enc, Reporter: output.NewReporter(&buf, output.ColorNever, false)}, &buf
}

func TestCryptDir_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	testutil.CreateFile(t, dir, "secrets/token", "s3cr3t")
	testutil.CreateFile(t, dir, "secrets/nested/key", "k")
	path := filepath.Join(dir, "secrets")

	cd, out := newCryptDir(&prefixEncrypter{})
	encrypted, err := cd.Encrypt(path, "me@example.com")
	require.NoError(t, err)

	assert.Equal(t, path+".tar.gz.gpg", encrypted)
	assert.Equal(t, []string{"secrets.tar.gz.gpg"}, testutil.ListDir(t, dir))
	assert.Equal(t, strings.Join([]string{
		"Compressing " + path,
		". " + path + " -> " + path + ".tar.gz",
		"Removing " + path,
		". removed " + path,
		"Encrypting " + path + ".tar.gz",
		". " + path + ".tar.gz -> " + path + ".tar.gz.gpg",
		"Removing " + path + ".tar.gz",
		". removed " + path + ".tar.gz",
		"Done",
	}, "\n")+"\n", out.String())

	out.Reset()
	restored, err := cd.Decrypt(encrypted)
	require.NoError(t, err)

	assert.Equal(t, path, restored)
	assert.Equal(t, []string{"secrets"}, testutil.ListDir(t, dir))
	assert.Equal(t, "s3cr3t", testutil.ReadFile(t, filepath.Join(path, "token")))
	assert.Equal(t, "k", testutil.ReadFile(t, filepath.Join(path, "nested", "key")))
	assert.Equal(t, strings.Join([]string{
		"Decrypting " + encrypted,
		". " + encrypted + " -> " + path + ".tar.gz",
		"Removing " + encrypted,
		". removed " + encrypted,
		"Extracting " + path + ".tar.gz",
		". " + path + ".tar.gz -> " + path,
		"Removing " + path + ".tar.gz",
		". removed " + path + ".tar.gz",
		"Done",
	}, "\n")+"\n", out.String())
}

func TestCryptDir_EncryptFailureKeepsTarball(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "diary.txt", "dear diary")

	cd, out := newCryptDir(&prefixEncrypter{failWith: errors.ExternalTool("gpg", 2)})
	_, err := cd.Encrypt(path, "me@example.com")
	require.Error(t, err)

	assert.Equal(t, 2, errors.ExitCode(err))
	// The original is gone after compression; the tarball is the only copy left.
	assert.Equal(t, []string{"diary.txt.tar.gz"}, testutil.ListDir(t, dir))
	assert.NotContains(t, out.String(), "Done")
}

func TestCryptDir_DecryptFailureKeepsInput(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateFile(t, dir, "diary.txt.tar.gz.gpg", marker+"x:garbage")

	cd, _ := newCryptDir(&prefixEncrypter{failWith: errors.ExternalTool("gpg", 5)})
	_, err := cd.Decrypt(path)
	require.Error(t, err)

	assert.Equal(t, 5, errors.ExitCode(err))
	assert.Equal(t, []string{"diary.txt.tar.gz.gpg"}, testutil.ListDir(t, dir))
}

func TestCryptDir_InvalidInput(t *testing.T) {
	cd, out := newCryptDir(&prefixEncrypter{})

	_, err := cd.Encrypt("anything", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = cd.Decrypt("notes.zip")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.Empty(t, out.String())
}

func TestCryptDir_MissingPath(t *testing.T) {
	cd, _ := newCryptDir(&prefixEncrypter{})
	_, err := cd.Encrypt(filepath.Join(t.TempDir(), "ghost"), "me")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
