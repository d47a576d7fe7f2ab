package linker

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dotfiles/pkg/config"
	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/testutil"
	"github.com/arthur-debert/dotfiles/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectStrategy(t *testing.T) {
	fsys := filesystem.NewOS()

	tests := []struct {
		mode      string
		goos      string
		wantLabel output.Label
	}{
		{config.LinkModeAuto, "linux", output.LabelSymlink},
		{config.LinkModeAuto, "darwin", output.LabelSymlink},
		{config.LinkModeAuto, "windows", output.LabelCopying},
		{"", "windows", output.LabelCopying},
		{config.LinkModeSymlink, "windows", output.LabelSymlink},
		{config.LinkModeCopy, "linux", output.LabelCopying},
	}

	for _, tt := range tests {
		t.Run(tt.mode+"/"+tt.goos, func(t *testing.T) {
			s, err := SelectStrategy(tt.mode, tt.goos, fsys)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, s.Label())
		})
	}

	_, err := SelectStrategy("hardlink", "linux", fsys)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCopyStrategy_LinksAndHides(t *testing.T) {
	h := newHarness(t, false)
	h.env.SourceFile("vim/vimrc", "set nu")
	h.env.SourceFile("vim/rc/vimide.vim", "set ide")

	var hidden []string
	strategy := &CopyStrategy{Hide: func(path string) error {
		hidden = append(hidden, path)
		return stderrors.New("attribute not supported")
	}}
	h.installer.strategy = strategy

	src := filepath.Join(h.env.SourceDir, "vim")
	dst := h.env.HomePath(".vim")
	outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeLinked, outcome)
	assert.Equal(t, "[COPYING] "+src+" -> "+dst+"\n", h.out.String())
	assert.Equal(t, []string{dst}, hidden)
	assert.False(t, testutil.SymlinkExists(t, dst))
	assert.Equal(t, "set ide", testutil.ReadFile(t, filepath.Join(dst, "rc", "vimide.vim")))
}

func TestCopyStrategy_ExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := testutil.CreateFile(t, dir, "a", "a")
	dst := testutil.CreateFile(t, dir, "b", "b")

	err := (&CopyStrategy{Hide: func(string) error { return nil }}).Link(src, dst)
	assert.True(t, stderrors.Is(err, fs.ErrExist))
}

func TestCopyStrategy_ReplacesBrokenLink(t *testing.T) {
	h := newHarness(t, false)
	src := h.env.SourceFile("gem/gemrc", "gem: --no-doc")
	dst := h.env.HomePath(".gemrc")
	testutil.CreateDanglingSymlink(t, dst)

	h.installer.strategy = &CopyStrategy{Hide: func(string) error { return nil }}

	var out bytes.Buffer
	h.installer.reporter = output.NewReporter(&out, output.ColorNever, false)

	outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeRelinkedStale, outcome)
	assert.Equal(t, "gem: --no-doc", testutil.ReadFile(t, dst))
	assert.False(t, testutil.SymlinkExists(t, dst))
}
