package cmd

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/nextlevelbuilder/govac/internal/environment"
	"github.com/nextlevelbuilder/govac/internal/input"
)

// runWithHelp wraps huh fields in a Form with help hints visible at the bottom.
// Cancelling ctx closes an open form.
func runWithHelp(ctx context.Context, fields ...huh.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).RunWithContext(ctx)
}

// promptValidated shows a text input that refuses to submit until parse
// accepts the answer; the parser's message is shown inline.
func promptValidated(ctx context.Context, title, placeholder string, parse func(string) error) error {
	var value string
	inp := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Validate(parse).
		Value(&value)
	return runWithHelp(ctx, inp)
}

// promptConfirm asks a yes/no question using huh TUI. Returns true for yes.
func promptConfirm(ctx context.Context, title string, defaultYes bool) (bool, error) {
	value := defaultYes

	c := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := runWithHelp(ctx, c); err != nil {
		return false, err
	}
	return value, nil
}

// huhPrompter collects setup answers with huh forms. It uses the same
// parsers as the line prompter, so the rules are identical.
type huhPrompter struct{}

func (huhPrompter) Dimensions(ctx context.Context) (int, int, error) {
	var w, h int
	err := promptValidated(ctx, input.DimensionsPrompt, "3x2", func(s string) error {
		var err error
		w, h, err = input.ParseDimensions(s)
		return err
	})
	return w, h, err
}

func (huhPrompter) DirtRow(ctx context.Context, row, width int) ([]bool, error) {
	var out []bool
	err := promptValidated(ctx, input.RowPrompt(row), "1 0 1", func(s string) error {
		var err error
		out, err = input.ParseDirtRow(s, width)
		return err
	})
	return out, err
}

func (huhPrompter) Start(ctx context.Context, width, height int) (environment.Position, error) {
	var pos environment.Position
	err := promptValidated(ctx, input.StartPrompt, "0 0", func(s string) error {
		var err error
		pos, err = input.ParseStart(s, width, height)
		return err
	})
	return pos, err
}
