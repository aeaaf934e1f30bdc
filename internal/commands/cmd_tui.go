package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sentiview/internal/sentiview"
	"github.com/colonyops/sentiview/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *sentiview.App
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *sentiview.App) *TuiCmd {
	return &TuiCmd{
		flags: flags,
		app:   app,
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	model := tui.New(tui.Opts{
		Holder:  cmd.app.Holder,
		Gateway: cmd.app.Gateway,
		Product: cmd.app.Config.Product,
		Context: ctx,
	})

	log.Info().
		Str("endpoint", cmd.app.Config.Gateway.Endpoint).
		Str("product", cmd.app.Config.Product.Name).
		Msg("starting tui")

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
