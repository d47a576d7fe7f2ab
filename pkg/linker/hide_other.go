//go:build !windows

package linker

// hide is a no-op: dotfiles are hidden by their leading dot.
func hide(string) error { return nil }
