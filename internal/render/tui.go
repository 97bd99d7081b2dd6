package render

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nextlevelbuilder/govac/internal/agent"
	"github.com/nextlevelbuilder/govac/internal/environment"
)

type frameMsg struct {
	frame agent.Frame
	ack   chan struct{}
}

type statusMsg string

type model struct {
	frame  agent.Frame
	status string
	have   bool
	done   bool
	marker string
	styles Styles
	help   lipgloss.Style
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = msg.frame
		m.have = true
		close(msg.ack)
	case statusMsg:
		m.status = string(msg)
		m.done = m.status == agent.StatusDone
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.done {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	if !m.have {
		return "Preparing room...\n"
	}
	help := "q: stop"
	if m.done {
		help = "enter/q: exit"
	}
	return View(m.frame, m.status, m.marker, m.styles) + "\n" + m.help.Render(help) + "\n"
}

// TUI runs a bubbletea program as the display. Render blocks until the
// program's model has taken the frame, so the loop never outruns it.
type TUI struct {
	prog *tea.Program

	done    chan struct{}
	once    sync.Once
	started bool
	err     error
}

// NewTUI prepares a program reading keys from in and drawing to out.
// Call Start before the first Render.
func NewTUI(in io.Reader, out io.Writer, marker string) *TUI {
	r := lipgloss.NewRenderer(out)
	m := model{
		marker: marker,
		styles: DefaultStyles(r),
		help:   r.NewStyle().Faint(true),
	}
	return &TUI{
		prog: tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen()),
		done: make(chan struct{}),
	}
}

// Start launches the program in the background.
func (t *TUI) Start() {
	t.started = true
	go func() {
		_, err := t.prog.Run()
		t.err = err
		close(t.done)
	}()
}

// Wait blocks until the user closes the program or ctx ends.
func (t *TUI) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		t.Close()
		return ctx.Err()
	}
}

// Done is closed once the program has exited, whether the user quit or
// Close was called.
func (t *TUI) Done() <-chan struct{} { return t.done }

// Close stops the program if it is still running and waits for it to
// restore the terminal.
func (t *TUI) Close() {
	t.once.Do(t.prog.Quit)
	if t.started {
		<-t.done
	}
}

func (t *TUI) Render(ctx context.Context, f agent.Frame) error {
	ack := make(chan struct{})
	select {
	case <-t.done:
		return ErrClosed
	default:
	}
	t.prog.Send(frameMsg{frame: f, ack: ack})
	select {
	case <-ack:
		return nil
	case <-t.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *TUI) Status(msg string) {
	select {
	case <-t.done:
	default:
		t.prog.Send(statusMsg(msg))
	}
}

func (t *TUI) Cleaned(environment.Position) {}
func (t *TUI) Moved(agent.Move)             {}
