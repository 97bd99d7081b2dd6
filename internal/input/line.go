package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nextlevelbuilder/govac/internal/environment"
)

// LinePrompter asks questions on out and reads one answer per line from in.
// Invalid answers print the validation message and ask again.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer

	once  sync.Once
	lines chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// NewLinePrompter wraps in and out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

// Dimensions asks for "WxH".
func (p *LinePrompter) Dimensions(ctx context.Context) (int, int, error) {
	var w, h int
	err := p.ask(ctx, DimensionsPrompt, func(line string) error {
		var err error
		w, h, err = ParseDimensions(line)
		return err
	})
	return w, h, err
}

// DirtRow asks for one row of 0/1 tokens.
func (p *LinePrompter) DirtRow(ctx context.Context, row, width int) ([]bool, error) {
	var out []bool
	err := p.ask(ctx, RowPrompt(row), func(line string) error {
		var err error
		out, err = ParseDirtRow(line, width)
		return err
	})
	return out, err
}

// Start asks for "x y".
func (p *LinePrompter) Start(ctx context.Context, width, height int) (environment.Position, error) {
	var pos environment.Position
	err := p.ask(ctx, StartPrompt, func(line string) error {
		var err error
		pos, err = ParseStart(line, width, height)
		return err
	})
	return pos, err
}

func (p *LinePrompter) ask(ctx context.Context, prompt string, accept func(string) error) error {
	p.once.Do(func() { go p.readLines() })
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(p.out, prompt)

		var res lineResult
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.out)
			return ctx.Err()
		case res = <-p.lines:
		}
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				fmt.Fprintln(p.out)
				return ErrInputClosed
			}
			return fmt.Errorf("read answer: %w", res.err)
		}

		err := accept(res.line)
		if err == nil {
			return nil
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		slog.Debug("input rejected", "prompt", prompt, "answer", res.line, "reason", verr.Kind)
		fmt.Fprintln(p.out, verr.Msg)
	}
}

// readLines feeds p.lines until the reader fails. A blocked read does not
// hold up ask, which also watches ctx. Lines have no length limit.
func (p *LinePrompter) readLines() {
	for {
		s, err := p.in.ReadString('\n')
		if s != "" && (err == nil || errors.Is(err, io.EOF)) {
			p.lines <- lineResult{line: strings.TrimRight(s, "\r\n")}
		}
		if err != nil {
			p.lines <- lineResult{err: err}
			return
		}
	}
}
