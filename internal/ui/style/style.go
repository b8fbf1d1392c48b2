// Package style holds the colors, icons and lipgloss styles shared by the
// menucache terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Basil  = lipgloss.Color("#2F855A")
	Slate  = lipgloss.Color("#667085")
	Ink    = lipgloss.Color("#0B0F19")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
	Sync    = "↻"
	Circle  = "○"
)

// Set is the style set bound to one lipgloss renderer.
type Set struct {
	r *lipgloss.Renderer

	Header           lipgloss.Style
	Category         lipgloss.Style
	Muted            lipgloss.Style
	OfflineBanner    lipgloss.Style
	ValidatingBanner lipgloss.Style
	ErrorBanner      lipgloss.Style
}

// For builds the style set for r.
func For(r *lipgloss.Renderer) Set {
	return Set{
		r: r,

		Header: r.NewStyle().Bold(true).Foreground(Basil),

		Category: r.NewStyle().Bold(true).Foreground(Ink),

		Muted: r.NewStyle().Foreground(Slate),

		OfflineBanner: r.NewStyle().
			Bold(true).
			Foreground(Yellow).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Yellow).
			PaddingLeft(1),

		ValidatingBanner: r.NewStyle().
			Foreground(Slate).
			PaddingLeft(2),

		ErrorBanner: r.NewStyle().
			Bold(true).
			Foreground(Red).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Red).
			PaddingLeft(1),
	}
}

// Stock returns the style of an availability label.
func (s Set) Stock(status string) lipgloss.Style {
	return s.r.NewStyle().Foreground(StockColor(status))
}

// StockColor returns the color of an availability label.
func StockColor(status string) lipgloss.Color {
	switch status {
	case "in_stock":
		return Green
	case "low_stock":
		return Yellow
	case "out_of_stock":
		return Red
	default:
		return Slate
	}
}
