package types

import (
	"io"
	"time"
)

// SuffixLayout formats the backup suffix: ddmmyyyyThhmmss.
const SuffixLayout = "02012006T150405"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

// RunContext holds everything that is fixed for one invocation. It is
// built once at startup and passed down explicitly.
type RunContext struct {
	// Home is the user's home directory
	Home string

	// Source is the dotfiles source tree
	Source string

	// Suffix is appended to every backup made during this run
	Suffix string

	// DryRun disables every filesystem mutation
	DryRun bool

	// Started is the time the suffix was computed from
	Started time.Time

	// Out receives the progress lines
	Out io.Writer
}

// NewRunContext computes the backup suffix once from clock.
func NewRunContext(home, source string, dryRun bool, clock Clock, out io.Writer) *RunContext {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()
	return &RunContext{
		Home:    home,
		Source:  source,
		Suffix:  FormatSuffix(now),
		DryRun:  dryRun,
		Started: now,
		Out:     out,
	}
}

// FormatSuffix renders t as a backup suffix.
func FormatSuffix(t time.Time) string {
	return t.Format(SuffixLayout)
}

// BackupPath returns the path a destination is renamed to.
func (rc *RunContext) BackupPath(destination string) string {
	return destination + "." + rc.Suffix
}
