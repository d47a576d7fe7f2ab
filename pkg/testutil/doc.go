// Package testutil provides utilities for testing dotfiles components.
//
// Key components:
//   - TestEnvironment: an isolated home directory and dotfiles source tree
//     with HOME and the DOTFILES_* variables pointed at them
//   - file, directory and symlink fixtures that fail the test on error
//   - FixedClock for deterministic backup suffixes
//
// All fixtures work on the real filesystem inside t.TempDir(): the link
// installer must be tested against real dangling symlinks, which in-memory
// filesystems cannot represent.
package testutil
