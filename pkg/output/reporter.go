package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by NewReporter
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Label identifies the kind of action a progress line announces.
type Label int

const (
	LabelSymlink Label = iota
	LabelCopying
	LabelBackup
)

// labelWidth is the width of the text inside the brackets.
const labelWidth = 7

var labelNames = map[Label]string{
	LabelSymlink: "SYMLINK",
	LabelCopying: "COPYING",
	LabelBackup:  "BACKUP",
}

// String returns the bracketed label without styling, e.g. "[BACKUP ]".
func (l Label) String() string {
	name := labelNames[l]
	return "[" + name + strings.Repeat(" ", labelWidth-len(name)) + "]"
}

// DryRunNotice closes the output of a dry run.
const DryRunNotice = "*** No files have been changed ***"

// Reporter writes progress lines for one run.
type Reporter struct {
	w      io.Writer
	styles Styles
	dryRun bool
}

// NewReporter returns a Reporter writing to w. mode is one of ColorAuto,
// ColorAlways or ColorNever; NO_COLOR disables color in auto mode.
func NewReporter(w io.Writer, mode string, dryRun bool) *Reporter {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		if os.Getenv("NO_COLOR") != "" {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return &Reporter{
		w:      w,
		styles: NewStyles(r),
		dryRun: dryRun,
	}
}

// Action announces "[LABEL] src -> dst".
func (r *Reporter) Action(label Label, src, dst string) {
	line := r.label(label) + " " + src + " " + r.styles.Arrow.Render("->") + " " + dst
	if r.dryRun {
		line = "[" + r.styles.DryRun.Render("DRY-RUN") + "]" + line
	}
	fmt.Fprintln(r.w, line)
}

// Backup announces that src is moved aside to dst.
func (r *Reporter) Backup(src, dst string) { r.Action(LabelBackup, src, dst) }

// Finish prints the dry-run reminder after a blank line. It does nothing
// for a real run.
func (r *Reporter) Finish() {
	if !r.dryRun {
		return
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.Notice.Render(DryRunNotice))
}

// Step prints a top-level archive step such as "Compressing X".
func (r *Reporter) Step(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Detail prints an indented ". in -> out" line under a step.
func (r *Reporter) Detail(format string, args ...interface{}) {
	fmt.Fprintln(r.w, r.styles.Muted.Render(".")+" "+fmt.Sprintf(format, args...))
}

// Transfer prints ". from -> to".
func (r *Reporter) Transfer(from, to string) {
	r.Detail("%s %s %s", from, r.styles.Arrow.Render("->"), to)
}

// Done closes a sequence of steps.
func (r *Reporter) Done() {
	fmt.Fprintln(r.w, "Done")
}

// Line writes a raw line, used for subprocess output.
func (r *Reporter) Line(s string) {
	fmt.Fprintln(r.w, s)
}

func (r *Reporter) label(l Label) string {
	name := labelNames[l]
	style := r.styles.Symlink
	switch l {
	case LabelCopying:
		style = r.styles.Copy
	case LabelBackup:
		style = r.styles.Backup
	}
	return "[" + style.Render(name) + strings.Repeat(" ", labelWidth-len(name)) + "]"
}
