package testutil

import (
	"path/filepath"
	"testing"
	"time"
)

// TestEnvironment is an isolated home directory plus a dotfiles source tree.
type TestEnvironment struct {
	// Root is the temp directory holding everything else
	Root string

	// HomeDir stands in for the user's home directory
	HomeDir string

	// SourceDir is the dotfiles source tree
	SourceDir string

	// ConfigDir and StateDir replace the XDG directories
	ConfigDir string
	StateDir  string

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME,
// DOTFILES_SOURCE, DOTFILES_CONFIG_DIR and DOTFILES_STATE_DIR at them.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// macOS temp dirs live behind a symlink; resolve it so paths compare equal.
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		Root:      root,
		HomeDir:   CreateDir(t, root, "home"),
		SourceDir: CreateDir(t, root, filepath.Join("home", ".dotfiles", "src")),
		ConfigDir: CreateDir(t, root, "config"),
		StateDir:  CreateDir(t, root, "state"),
		t:         t,
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("DOTFILES_SOURCE", env.SourceDir)
	t.Setenv("DOTFILES_CONFIG_DIR", env.ConfigDir)
	t.Setenv("DOTFILES_STATE_DIR", env.StateDir)

	return env
}

// SourceFile creates a file in the source tree and returns its path.
func (e *TestEnvironment) SourceFile(rel, content string) string {
	e.t.Helper()
	return CreateFile(e.t, e.SourceDir, rel, content)
}

// HomeFile creates a file in the home directory and returns its path.
func (e *TestEnvironment) HomeFile(rel, content string) string {
	e.t.Helper()
	return CreateFile(e.t, e.HomeDir, rel, content)
}

// HomePath returns the absolute path of rel inside the home directory.
func (e *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(e.HomeDir, rel)
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time { return c.Time }

// DefaultTestTime is the instant used by most tests; its suffix is 07032024T090503.
var DefaultTestTime = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)
