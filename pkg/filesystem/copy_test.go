package filesystem_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy_File(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "settings.json", `{"editor.fontSize": 12}`)
	dst := filepath.Join(dir, "out", "settings.json")
	testutil.CreateDir(t, dir, "out")

	require.NoError(t, filesystem.Copy(src, dst))

	assert.Equal(t, `{"editor.fontSize": 12}`, testutil.ReadFile(t, dst))
}

func TestCopy_Tree(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateDir(t, dir, "vim")
	testutil.CreateFile(t, src, "vimrc", "set nocompatible")
	testutil.CreateFile(t, src, filepath.Join("rc", "vimrc.vim"), "syntax on")
	testutil.CreateSymlink(t, filepath.Join("rc", "vimrc.vim"), filepath.Join(src, "current"))

	dst := filepath.Join(dir, ".vim")
	require.NoError(t, filesystem.Copy(src, dst))

	assert.Equal(t, "set nocompatible", testutil.ReadFile(t, filepath.Join(dst, "vimrc")))
	assert.Equal(t, "syntax on", testutil.ReadFile(t, filepath.Join(dst, "rc", "vimrc.vim")))
	assert.Equal(t, filepath.Join("rc", "vimrc.vim"), testutil.ReadSymlink(t, filepath.Join(dst, "current")))
}

func TestCopy_Errors(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "bashrc", "alias ll='ls -l'")

	t.Run("missing source", func(t *testing.T) {
		err := filesystem.Copy(filepath.Join(dir, "nope"), filepath.Join(dir, "x"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("existing destination file", func(t *testing.T) {
		dst := testutil.CreateFile(t, dir, "taken", "")
		err := filesystem.Copy(src, dst)
		assert.ErrorIs(t, err, fs.ErrExist)
	})

	t.Run("existing destination directory", func(t *testing.T) {
		srcDir := testutil.CreateDir(t, dir, "zsh")
		dst := testutil.CreateDir(t, dir, "zsh-taken")
		err := filesystem.Copy(srcDir, dst)
		assert.ErrorIs(t, err, fs.ErrExist)
	})

	t.Run("missing destination parent", func(t *testing.T) {
		err := filesystem.Copy(src, filepath.Join(dir, "no", "such", "dir", "bashrc"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})
}

func TestOSFS_StatVersusLstat(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, ".vimrc")
	testutil.CreateDanglingSymlink(t, link)

	osfs := filesystem.NewOS()

	_, err := osfs.Stat(link)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	info, err := osfs.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)
}
