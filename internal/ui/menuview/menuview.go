// Package menuview renders menu states for the terminal and as JSON.
package menuview

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/menucache/internal/core/domain"
	"go.trai.ch/menucache/internal/ui/style"
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces time.Now when computing ages.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// Renderer writes menu states to a terminal.
type Renderer struct {
	w      io.Writer
	styles style.Set
	now    func() time.Time
}

// New creates a Renderer writing to w with the given color profile.
func New(w io.Writer, profile termenv.Profile, opts ...Option) *Renderer {
	lr := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	lr.SetColorProfile(profile)

	r := &Renderer{w: w, styles: style.For(lr), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Menu writes st as a table grouped by category. fields narrows the columns.
func (r *Renderer) Menu(st domain.MenuState, fields []string) error {
	var b strings.Builder
	s := r.styles

	switch {
	case st.Error != "":
		b.WriteString(s.ErrorBanner.Render(style.Cross+" "+st.Error) + "\n")
		b.WriteString(s.Muted.Render(`  Run "menucache refresh" to try again.`) + "\n")
		return r.write(b.String())
	case st.Loading:
		b.WriteString(s.Muted.Render(style.Circle+" Loading menu…") + "\n")
		return r.write(b.String())
	}

	if st.IsOffline {
		b.WriteString(s.OfflineBanner.Render(style.Warning+" Offline: showing the menu saved "+r.ago(st.FetchedAt)) + "\n")
	}
	if st.IsValidating {
		b.WriteString(s.ValidatingBanner.Render(style.Sync+" Refreshing…") + "\n")
	}
	if st.IsOffline || st.IsValidating {
		b.WriteString("\n")
	}

	if len(st.Items) == 0 {
		b.WriteString(s.Muted.Render("No menu items.") + "\n")
		return r.write(b.String())
	}

	r.table(&b, st.Items, selectColumns(fields))

	b.WriteString("\n")
	b.WriteString(s.Muted.Render(r.footer(st)) + "\n")
	return r.write(b.String())
}

func (r *Renderer) table(b *strings.Builder, items []domain.MenuItem, fields []string) {
	s := r.styles

	widths := make([]int, len(fields))
	for i, f := range fields {
		widths[i] = lipgloss.Width(columns[f].title)
		for _, it := range items {
			widths[i] = max(widths[i], lipgloss.Width(columns[f].value(it)))
		}
	}

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = pad(columns[f].title, widths[i])
	}
	b.WriteString("  " + s.Header.Render(strings.TrimRight(strings.Join(header, "  "), " ")) + "\n")

	category := "\x00"
	for _, it := range items {
		if it.Category != category {
			category = it.Category
			if category != "" {
				b.WriteString(s.Category.Render(category) + "\n")
			}
		}

		cells := make([]string, len(fields))
		for i, f := range fields {
			cell := pad(columns[f].value(it), widths[i])
			if f == "stock_status" {
				cell = s.Stock(string(it.Stock)).Render(cell)
			}
			cells[i] = cell
		}
		b.WriteString("  " + strings.TrimRight(strings.Join(cells, "  "), " ") + "\n")
	}
}

func (r *Renderer) footer(st domain.MenuState) string {
	n := len(st.Items)
	noun := "items"
	if n == 1 {
		noun = "item"
	}
	line := strconv.Itoa(n) + " " + noun
	if !st.FetchedAt.IsZero() {
		line += " · updated " + r.ago(st.FetchedAt)
	}
	return line
}

// Status writes a cache status summary.
func (r *Renderer) Status(cs domain.CacheStatus) error {
	s := r.styles
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(s.Header.Render(pad(label, 9)) + " " + value + "\n")
	}

	row("cache", cs.CacheDir)
	switch {
	case !cs.StoreAvailable:
		row("snapshot", s.Stock(string(domain.StockOut)).Render(style.Cross+" store unavailable"))
	case !cs.HasSnapshot:
		row("snapshot", s.Muted.Render(style.Circle+" none"))
	default:
		row("snapshot", fmt.Sprintf("%d items in %d categories, saved %s (%s, window %s)",
			cs.Items, cs.Categories, r.ago(r.now().Add(-cs.Age)), cs.Freshness, cs.Window))
	}
	row("api", cs.APIURL)
	if cs.FeedAddress == "" {
		row("feed", s.Muted.Render("disabled, polling"))
	} else {
		row("feed", cs.FeedAddress+" (table "+cs.FeedTable+")")
	}
	return r.write(b.String())
}

// Line writes one muted line, used for watch progress.
func (r *Renderer) Line(msg string) error {
	return r.write(r.styles.Muted.Render(msg) + "\n")
}

func (r *Renderer) write(s string) error {
	_, err := io.WriteString(r.w, s)
	return err
}

func (r *Renderer) ago(t time.Time) string {
	if t.IsZero() {
		return "at an unknown time"
	}
	return Ago(r.now().Sub(t))
}

// Ago formats a duration as a coarse "N units ago" phrase.
func Ago(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return strconv.Itoa(int(d/time.Second)) + "s ago"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m ago"
	case d < 48*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	default:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d ago"
	}
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
