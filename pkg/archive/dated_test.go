package archive

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatedArchiver_Archive(t *testing.T) {
	testutil.SkipOnWindows(t)
	env := testutil.NewTestEnvironment(t)
	testutil.CreateFile(t, env.HomeDir, "projects/report/draft.md", "# draft")
	target := env.HomePath("projects/report")
	testutil.CreateDir(t, env.HomeDir, "Documents/Archive")

	var buf bytes.Buffer
	archiver := &DatedArchiver{
		Dest:     env.HomePath("Documents/Archive"),
		Home:     env.HomeDir,
		Clock:    testutil.FixedClock{Time: testutil.DefaultTestTime},
		Reporter: output.NewReporter(&buf, output.ColorNever, false),
	}

	final, err := archiver.Archive(target + "/")
	require.NoError(t, err)

	assert.Equal(t, env.HomePath("Documents/Archive/2024/03/07/09:05:03.report.tar.gz"), final)
	assert.True(t, testutil.FileExists(t, final))
	assert.Equal(t, []string{"report"}, testutil.ListDir(t, env.HomePath("projects")))
	assert.Equal(t, []string{"report/", "report/draft.md"}, entryNames(t, final))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Adding 2024/03/07/ to "+env.HomePath("Documents/Archive"), lines[0])
	assert.Equal(t, "Making archive", lines[1])
	assert.Regexp(t, regexp.MustCompile(`^\. created 09:05:03\.report\.tar\.gz \(\d+ B\)$`), lines[2])
	assert.Equal(t, "Storing archive", lines[3])
	assert.Equal(t, ". 09:05:03.report.tar.gz -> ~/Documents/Archive/2024/03/07/09:05:03.report.tar.gz", lines[4])
	assert.Equal(t, "Done", lines[5])
}

func TestDatedArchiver_ExistingDateDir(t *testing.T) {
	testutil.SkipOnWindows(t)
	dir := t.TempDir()
	dest := testutil.CreateDir(t, dir, "archive/2024/03/07")
	target := testutil.CreateFile(t, dir, "note.txt", "n")

	var buf bytes.Buffer
	archiver := &DatedArchiver{
		Dest:     filepath.Join(dir, "archive"),
		Clock:    testutil.FixedClock{Time: testutil.DefaultTestTime},
		Reporter: output.NewReporter(&buf, output.ColorNever, false),
	}
	final, err := archiver.Archive(target)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "09:05:03.note.txt.tar.gz"), final)
	assert.True(t, strings.HasPrefix(buf.String(), "Making archive\n"))
}

func TestDirInfo(t *testing.T) {
	root := t.TempDir()
	testutil.CreateDir(t, root, "a/b")

	tests := []struct {
		path         string
		wantExisting string
		wantCreated  string
	}{
		{filepath.Join(root, "a", "b"), filepath.Join(root, "a", "b"), ""},
		{filepath.Join(root, "a", "b", "c"), filepath.Join(root, "a", "b"), "c"},
		{filepath.Join(root, "a", "x", "y", "z"), filepath.Join(root, "a"), filepath.Join("x", "y", "z")},
	}

	for _, tt := range tests {
		existing, created := DirInfo(tt.path)
		assert.Equal(t, tt.wantExisting, existing, tt.path)
		assert.Equal(t, tt.wantCreated, created, tt.path)
	}
}
