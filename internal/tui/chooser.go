package tui

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cory-johannsen/diceydrinks/internal/game/builder"
	"github.com/cory-johannsen/diceydrinks/internal/game/inventory"
	"github.com/cory-johannsen/diceydrinks/internal/game/recipe"
)

// ErrQuit is returned when the person quits from a prompt.
var ErrQuit = errors.New("tui: quit")

// RunFunc runs a picker program to completion and returns its final model.
type RunFunc func(ctx context.Context, p Picker) (Picker, error)

// Chooser resolves dealer's choice with an interactive picker.
type Chooser struct {
	run    RunFunc
	logger *zap.Logger
}

var _ builder.Chooser = (*Chooser)(nil)

// NewChooser creates a Chooser that draws its picker on out and reads keys
// from in.
func NewChooser(in io.Reader, out io.Writer, logger *zap.Logger) *Chooser {
	return NewChooserWithRunner(ProgramRunner(in, out), logger)
}

// NewChooserWithRunner creates a Chooser around run.
func NewChooserWithRunner(run RunFunc, logger *zap.Logger) *Chooser {
	return &Chooser{run: run, logger: logger}
}

// ProgramRunner returns a RunFunc backed by a Bubble Tea program.
func ProgramRunner(in io.Reader, out io.Writer) RunFunc {
	return func(ctx context.Context, p Picker) (Picker, error) {
		prog := tea.NewProgram(p, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
		final, err := prog.Run()
		if err != nil {
			if ctx.Err() != nil {
				return p, ctx.Err()
			}
			return p, fmt.Errorf("running picker: %w", err)
		}
		return final.(Picker), nil
	}
}

// ChooseType implements builder.Chooser.
func (c *Chooser) ChooseType(ctx context.Context, options []recipe.DrinkType) (recipe.DrinkType, error) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = string(o)
	}
	i, err := c.pick(ctx, "drink or shot?", labels)
	if err != nil || i < 0 {
		return "", err
	}
	return options[i], nil
}

// ChooseMethod implements builder.Chooser.
func (c *Chooser) ChooseMethod(ctx context.Context, t recipe.DrinkType, options []recipe.Method) (recipe.Method, error) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = string(o)
	}
	i, err := c.pick(ctx, "method for the "+string(t), labels)
	if err != nil || i < 0 {
		return "", err
	}
	return options[i], nil
}

// ChooseItem implements builder.Chooser and roller.JokerFunc.
func (c *Chooser) ChooseItem(ctx context.Context, itemType string, allowed []inventory.Item) (*inventory.Item, error) {
	labels := make([]string, len(allowed))
	for i, it := range allowed {
		labels[i] = it.Name
		if labels[i] == "" {
			labels[i] = it.ID
		}
	}
	i, err := c.pick(ctx, "pick a "+itemType, labels)
	if err != nil || i < 0 {
		return nil, err
	}
	pick := allowed[i]
	return &pick, nil
}

// pick returns the chosen index, or -1 when the person declined.
func (c *Chooser) pick(ctx context.Context, title string, labels []string) (int, error) {
	if len(labels) == 0 {
		return -1, nil
	}
	final, err := c.run(ctx, NewPicker(title, labels))
	if err != nil {
		return -1, err
	}
	switch {
	case final.Quit():
		return -1, ErrQuit
	case final.Declined(), final.Chosen() < 0:
		c.logger.Debug("dealer's choice declined", zap.String("prompt", title))
		return -1, nil
	}
	c.logger.Debug("dealer's choice", zap.String("prompt", title), zap.String("choice", labels[final.Chosen()]))
	return final.Chosen(), nil
}
