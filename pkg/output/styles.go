package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors for light and dark terminals
var (
	SymlinkColor = lipgloss.AdaptiveColor{
		Light: "#0EA5E9", // Sky blue
		Dark:  "#38BDF8",
	}

	CopyColor = lipgloss.AdaptiveColor{
		Light: "#28A745", // Green
		Dark:  "#4CDD76",
	}

	BackupColor = lipgloss.AdaptiveColor{
		Light: "#B8860B", // Dark goldenrod
		Dark:  "#FFD54F",
	}

	DryRunColor = lipgloss.AdaptiveColor{
		Light: "#A21CAF", // Magenta
		Dark:  "#E879F9",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545", // Red
		Dark:  "#FF6B7D",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D", // Medium gray
		Dark:  "#ADB5BD",
	}
)

// Styles holds the styles bound to one renderer.
type Styles struct {
	Symlink lipgloss.Style
	Copy    lipgloss.Style
	Backup  lipgloss.Style
	DryRun  lipgloss.Style
	Arrow   lipgloss.Style
	Notice  lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds the style set for r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Symlink: r.NewStyle().Foreground(SymlinkColor).Bold(true),
		Copy:    r.NewStyle().Foreground(CopyColor).Bold(true),
		Backup:  r.NewStyle().Foreground(BackupColor).Bold(true),
		DryRun:  r.NewStyle().Foreground(DryRunColor),
		Arrow:   r.NewStyle().Foreground(MutedColor),
		Notice:  r.NewStyle().Foreground(BackupColor).Bold(true),
		Error:   r.NewStyle().Foreground(ErrorColor).Bold(true),
		Muted:   r.NewStyle().Foreground(MutedColor),
	}
}
