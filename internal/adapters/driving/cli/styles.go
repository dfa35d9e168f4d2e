package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// reportStyles colour check reports on terminals.
type reportStyles struct {
	Header lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	High   lipgloss.Style
	Low    lipgloss.Style
	Error  lipgloss.Style
}

func newReportStyles(color bool) reportStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return reportStyles{Header: plain, Label: plain, Muted: plain, High: plain, Low: plain, Error: plain}
	}
	return reportStyles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		High:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// score picks the style for a score against the report threshold.
func (s reportStyles) score(total, threshold float64) lipgloss.Style {
	if total >= threshold {
		return s.High
	}
	return s.Low
}

// maskAPIKey hides all but the ends of a secret.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
