package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nextlevelbuilder/govac/internal/agent"
	"github.com/nextlevelbuilder/govac/internal/environment"
)

const clearScreen = "\x1b[H\x1b[2J"

// Styles groups the lipgloss styles used to draw a frame.
type Styles struct {
	Title  lipgloss.Style
	Agent  lipgloss.Style
	Dirty  lipgloss.Style
	Clean  lipgloss.Style
	Status lipgloss.Style
	Border lipgloss.Style
}

// DefaultStyles mirrors the classic look: the vacuum on light blue, dirt
// highlighted, clean cells plain.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	cell := r.NewStyle().Width(3).Align(lipgloss.Center)
	return Styles{
		Title:  r.NewStyle().Bold(true),
		Agent:  cell.Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("153")),
		Dirty:  cell.Foreground(lipgloss.Color("130")),
		Clean:  cell.Foreground(lipgloss.Color("245")),
		Status: r.NewStyle().Italic(true).PaddingTop(1),
		Border: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Console redraws the whole screen on every event using lipgloss. It is
// meant for terminals; use Plain for pipes and logs.
type Console struct {
	w      io.Writer
	marker string
	styles Styles
	clear  bool

	last   agent.Frame
	drawn  bool
	status string
}

// NewConsole draws to w. When clear is true the screen is wiped before
// each frame so the grid stays in place.
func NewConsole(w io.Writer, marker string, clear bool) *Console {
	return &Console{
		w:      w,
		marker: marker,
		styles: DefaultStyles(lipgloss.NewRenderer(w)),
		clear:  clear,
	}
}

func (c *Console) Render(_ context.Context, f agent.Frame) error {
	c.last = f
	c.drawn = true
	return c.draw()
}

// Status updates the status line and redraws the last frame.
func (c *Console) Status(msg string) {
	c.status = msg
	if !c.drawn {
		return
	}
	if err := c.draw(); err != nil {
		slog.Debug("status redraw failed", "status", msg, "error", err)
	}
}

func (c *Console) Cleaned(environment.Position) {}
func (c *Console) Moved(agent.Move)             {}

func (c *Console) draw() error {
	view := View(c.last, c.status, c.marker, c.styles)
	if c.clear {
		view = clearScreen + view
	}
	_, err := fmt.Fprintln(c.w, view)
	return err
}

// View lays out a frame as a bordered table with a title and status line.
func View(f agent.Frame, status, marker string, s Styles) string {
	rows := make([][]string, f.Height)
	for row := range rows {
		rows[row] = make([]string, f.Width)
		for col := range rows[row] {
			rows[row][col] = cellText(f, col, row, marker)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		BorderRow(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 || row >= f.Height || col >= f.Width {
				return s.Clean
			}
			switch {
			case f.IsAgent(col, row):
				return s.Agent
			case f.Dirt[row][col]:
				return s.Dirty
			default:
				return s.Clean
			}
		}).
		Rows(rows...)

	title := s.Title.Render(fmt.Sprintf("Vacuum Cleaner  %dx%d  step %d", f.Width, f.Height, f.Step))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.Render(), s.Status.Render(status))
}
