package linker

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/arthur-debert/dotfiles/pkg/errors"
	"github.com/arthur-debert/dotfiles/pkg/filesystem"
	"github.com/arthur-debert/dotfiles/pkg/output"
	"github.com/arthur-debert/dotfiles/pkg/testutil"
	"github.com/arthur-debert/dotfiles/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suffix = "07032024T090503"

type harness struct {
	env       *testutil.TestEnvironment
	out       *bytes.Buffer
	installer *Installer
}

func newHarness(t *testing.T, dryRun bool) *harness {
	t.Helper()
	testutil.SkipOnWindows(t)

	env := testutil.NewTestEnvironment(t)
	out := &bytes.Buffer{}
	run := types.NewRunContext(env.HomeDir, env.SourceDir, dryRun, testutil.FixedClock{Time: testutil.DefaultTestTime}, out)
	fsys := filesystem.NewOS()
	reporter := output.NewReporter(out, output.ColorNever, dryRun)

	return &harness{
		env:       env,
		out:       out,
		installer: NewInstaller(run, fsys, &SymlinkStrategy{FS: fsys}, reporter),
	}
}

func TestInstall_States(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, h *harness, src, dst string)
		wantOutcome types.LinkOutcome
		wantOutput  func(src, dst string) string
		check       func(t *testing.T, h *harness, src, dst string)
	}{
		{
			name:        "absent destination is linked",
			setup:       func(t *testing.T, h *harness, src, dst string) {},
			wantOutcome: types.OutcomeLinked,
			wantOutput: func(src, dst string) string {
				return "[SYMLINK] " + src + " -> " + dst + "\n"
			},
		},
		{
			name: "occupied destination is backed up",
			setup: func(t *testing.T, h *harness, src, dst string) {
				h.env.HomeFile(".gitconfig", "old")
			},
			wantOutcome: types.OutcomeLinked,
			wantOutput: func(src, dst string) string {
				return "[BACKUP ] " + dst + " -> " + dst + "." + suffix + "\n" +
					"[SYMLINK] " + src + " -> " + dst + "\n"
			},
			check: func(t *testing.T, h *harness, src, dst string) {
				assert.Equal(t, "old", testutil.ReadFile(t, dst+"."+suffix))
			},
		},
		{
			name: "valid foreign link is backed up",
			setup: func(t *testing.T, h *harness, src, dst string) {
				other := h.env.HomeFile("other", "x")
				testutil.CreateSymlink(t, other, dst)
			},
			wantOutcome: types.OutcomeLinked,
			wantOutput: func(src, dst string) string {
				return "[BACKUP ] " + dst + " -> " + dst + "." + suffix + "\n" +
					"[SYMLINK] " + src + " -> " + dst + "\n"
			},
			check: func(t *testing.T, h *harness, src, dst string) {
				assert.Equal(t, h.env.HomePath("other"), testutil.ReadSymlink(t, dst+"."+suffix))
			},
		},
		{
			name: "broken link is replaced without backup",
			setup: func(t *testing.T, h *harness, src, dst string) {
				testutil.CreateDanglingSymlink(t, dst)
			},
			wantOutcome: types.OutcomeRelinkedStale,
			wantOutput: func(src, dst string) string {
				return "[SYMLINK] " + src + " -> " + dst + "\n"
			},
			check: func(t *testing.T, h *harness, src, dst string) {
				assert.NotContains(t, testutil.ListDir(t, h.env.HomeDir), ".gitconfig."+suffix)
			},
		},
		{
			name: "self-referencing link is replaced without backup",
			setup: func(t *testing.T, h *harness, src, dst string) {
				testutil.CreateSymlink(t, dst, dst)
			},
			wantOutcome: types.OutcomeRelinkedStale,
			wantOutput: func(src, dst string) string {
				return "[SYMLINK] " + src + " -> " + dst + "\n"
			},
		},
		{
			name: "link through a regular file is replaced without backup",
			setup: func(t *testing.T, h *harness, src, dst string) {
				testutil.CreateSymlink(t, filepath.Join(h.env.HomeFile("plain", "x"), "nope"), dst)
			},
			wantOutcome: types.OutcomeRelinkedStale,
			wantOutput: func(src, dst string) string {
				return "[SYMLINK] " + src + " -> " + dst + "\n"
			},
			check: func(t *testing.T, h *harness, src, dst string) {
				assert.NotContains(t, testutil.ListDir(t, h.env.HomeDir), ".gitconfig."+suffix)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false)
			src := h.env.SourceFile("git/gitconfig", "[user]")
			dst := h.env.HomePath(".gitconfig")
			tt.setup(t, h, src, dst)

			outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
			require.NoError(t, err)

			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantOutput(src, dst), h.out.String())
			assert.Equal(t, src, testutil.ReadSymlink(t, dst))
			assert.Equal(t, "[user]", testutil.ReadFile(t, dst))
			if tt.check != nil {
				tt.check(t, h, src, dst)
			}
		})
	}
}

func TestInstall_SourceMissingIsSilent(t *testing.T) {
	h := newHarness(t, false)
	src := filepath.Join(h.env.SourceDir, "vim", "rc", "vimide.vim")
	dst := h.env.HomePath(".vimide")

	outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeSourceMissing, outcome)
	assert.True(t, outcome.Skipped())
	assert.Empty(t, h.out.String())
	assert.False(t, testutil.SymlinkExists(t, dst))
}

func TestInstall_DestinationParentMissing(t *testing.T) {
	h := newHarness(t, false)
	src := h.env.SourceFile("vscode.d/settings.json", "{}")
	dst := h.env.HomePath(".config/Code/User/settings.json")

	outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeDestinationParentMissing, outcome)
	assert.True(t, outcome.Skipped())
	assert.Empty(t, h.out.String())
	assert.False(t, testutil.DirExists(t, h.env.HomePath(".config")))
}

func TestInstall_DryRunNeverMutates(t *testing.T) {
	setups := map[string]func(t *testing.T, h *harness, dst string){
		"absent":   func(t *testing.T, h *harness, dst string) {},
		"occupied": func(t *testing.T, h *harness, dst string) { h.env.HomeFile(".zshrc", "old") },
		"broken":   func(t *testing.T, h *harness, dst string) { testutil.CreateDanglingSymlink(t, dst) },
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, true)
			src := h.env.SourceFile("zsh/zshrc", "export A=1")
			dst := h.env.HomePath(".zshrc")
			setup(t, h, dst)

			before := testutil.Snapshot(t, h.env.HomeDir)
			outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
			require.NoError(t, err)
			after := testutil.Snapshot(t, h.env.HomeDir)

			assert.Equal(t, types.OutcomePlanned, outcome)
			assert.Equal(t, before, after)
			assert.Contains(t, h.out.String(), "[DRY-RUN][SYMLINK] "+src+" -> "+dst+"\n")
			for _, line := range bytes.Split(bytes.TrimSpace(h.out.Bytes()), []byte("\n")) {
				assert.True(t, bytes.HasPrefix(line, []byte("[DRY-RUN]")), "line %q", line)
			}
		})
	}
}

func TestInstall_BackupsShareSuffix(t *testing.T) {
	h := newHarness(t, false)
	for _, name := range []string{"a", "b"} {
		src := h.env.SourceFile(name, name)
		h.env.HomeFile("."+name, "old")
		_, err := h.installer.Install(types.LinkRequest{Source: src, Destination: h.env.HomePath("." + name)})
		require.NoError(t, err)
	}

	pattern := regexp.MustCompile(`^\.[ab]\.(\d{8}T\d{6})$`)
	var suffixes []string
	for _, name := range testutil.ListDir(t, h.env.HomeDir) {
		if m := pattern.FindStringSubmatch(name); m != nil {
			suffixes = append(suffixes, m[1])
		}
	}
	require.Len(t, suffixes, 2)
	assert.Equal(t, suffixes[0], suffixes[1])
	assert.Equal(t, suffix, suffixes[0])
}

type fakeStrategy struct {
	label output.Label
	calls int
	errs  []error
}

func (f *fakeStrategy) Label() output.Label { return f.label }

func (f *fakeStrategy) Link(source, destination string) error {
	var err error
	if f.calls < len(f.errs) {
		err = f.errs[f.calls]
	}
	f.calls++
	return err
}

func TestInstall_StrategyErrors(t *testing.T) {
	permission := &fs.PathError{Op: "symlink", Path: "x", Err: fs.ErrPermission}
	exists := &fs.PathError{Op: "symlink", Path: "x", Err: fs.ErrExist}

	tests := []struct {
		name        string
		label       output.Label
		errs        []error
		wantCode    errors.ErrorCode
		wantOutcome types.LinkOutcome
		wantCalls   int
	}{
		{
			name:      "permission denied is fatal",
			errs:      []error{permission},
			wantCode:  errors.ErrSymlinkCreate,
			wantCalls: 1,
		},
		{
			name:      "copy failure uses copy code",
			label:     output.LabelCopying,
			errs:      []error{permission},
			wantCode:  errors.ErrCopy,
			wantCalls: 1,
		},
		{
			name:      "retry happens once",
			errs:      []error{exists, exists},
			wantCode:  errors.ErrSymlinkCreate,
			wantCalls: 2,
		},
		{
			name:        "retry succeeds",
			errs:        []error{exists, nil},
			wantOutcome: types.OutcomeRelinkedStale,
			wantCalls:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, false)
			src := h.env.SourceFile("f", "x")
			dst := h.env.HomePath(".f")
			testutil.CreateDanglingSymlink(t, dst)

			strategy := &fakeStrategy{label: tt.label, errs: tt.errs}
			h.installer.strategy = strategy

			outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
			assert.Equal(t, tt.wantCalls, strategy.calls)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, types.OutcomeUnknown, outcome)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
				assert.True(t, stderrors.Is(err, fs.ErrPermission) || stderrors.Is(err, fs.ErrExist))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutcome, outcome)
		})
	}
}

func TestInstall_UnreachableDestination(t *testing.T) {
	h := newHarness(t, false)
	src := h.env.SourceFile("f", "x")
	h.env.HomeFile("plain", "x")
	dst := h.env.HomePath("plain/.f")

	outcome, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.Error(t, err)
	assert.Equal(t, types.OutcomeUnknown, outcome)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileAccess), "got %v", err)
	assert.Empty(t, h.out.String())
}

func TestInstall_BackupFailure(t *testing.T) {
	h := newHarness(t, false)
	src := h.env.SourceFile("f", "x")
	dst := h.env.HomeFile("sub/.f", "old")

	// A directory at the backup path that is not empty cannot be replaced
	// by rename(2) of a regular file.
	testutil.CreateFile(t, h.env.HomeDir, "sub/.f."+suffix+"/keep", "")

	_, err := h.installer.Install(types.LinkRequest{Source: src, Destination: dst})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackup))
	assert.Empty(t, h.out.String())

	data, readErr := os.ReadFile(dst)
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(data))
}
