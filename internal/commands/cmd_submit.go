package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sentiview/internal/core/review"
	"github.com/colonyops/sentiview/internal/core/sentiment"
	"github.com/colonyops/sentiview/internal/printer"
	"github.com/colonyops/sentiview/internal/sentiview"
	"github.com/colonyops/sentiview/pkg/iojson"
)

// SubmitInput is the JSON document accepted on stdin or via -f.
type SubmitInput struct {
	Customer string `json:"customer"`
	Feedback string `json:"feedback"`
}

// SubmitOutput is written by --format json.
type SubmitOutput struct {
	Customer  string `json:"customer"`
	Product   string `json:"product"`
	Feedback  string `json:"feedback"`
	Sentiment string `json:"sentiment"`
}

type SubmitCmd struct {
	flags  *Flags
	app    *sentiview.App
	reader iojson.FileReader[SubmitInput]

	name     string
	feedback string
	format   string
}

// NewSubmitCmd creates a new submit command.
func NewSubmitCmd(flags *Flags, app *sentiview.App) *SubmitCmd {
	return &SubmitCmd{flags: flags, app: app}
}

// Register adds the submit command to the application.
func (cmd *SubmitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "submit",
		Usage:     "Submit one review and print its sentiment",
		UsageText: "sentiview submit [--name NAME --feedback TEXT] [-f file.json] [--format text|json]",
		Description: `Submits a single review without the terminal UI.

The review is taken from --name and --feedback when either is set, otherwise
from a JSON document ({"customer": "...", "feedback": "..."}) read from -f or
stdin. When stdin is a terminal and no flags are given, an interactive form
is shown.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "customer name",
				Destination: &cmd.name,
			},
			&cli.StringFlag{
				Name:        "feedback",
				Usage:       "review text",
				Destination: &cmd.feedback,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
				Validator: func(s string) error {
					if s != "text" && s != "json" {
						return fmt.Errorf("unknown format %q", s)
					}
					return nil
				},
			},
			cmd.reader.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SubmitCmd) run(ctx context.Context, c *cli.Command) error {
	input, err := cmd.input(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	outcome, err := cmd.app.Submit(ctx, review.Draft{
		CustomerName: input.Customer,
		FeedbackText: input.Feedback,
	})
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		return cmd.outputJSON(c, input, outcome)
	}

	return cmd.outputText(printer.Ctx(ctx), outcome)
}

// input resolves the review from flags, then JSON input, then a prompt.
func (cmd *SubmitCmd) input(ctx context.Context) (SubmitInput, error) {
	switch {
	case cmd.name != "" || cmd.feedback != "":
		return SubmitInput{Customer: cmd.name, Feedback: cmd.feedback}, nil
	case cmd.reader.Available():
		in, err := cmd.reader.Read()
		if err != nil {
			return in, fmt.Errorf("read input: %w", err)
		}
		return in, nil
	default:
		return promptInput(ctx)
	}
}

func promptInput(ctx context.Context) (SubmitInput, error) {
	var in SubmitInput

	required := func(s string) error {
		if s == "" {
			return errors.New("required")
		}
		return nil
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Your Name").
			Value(&in.Customer).
			Validate(required),
		huh.NewText().
			Title("Your feedback...").
			Value(&in.Feedback).
			Validate(required),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return in, fmt.Errorf("form: %w", err)
	}

	return in, nil
}

func (cmd *SubmitCmd) outputJSON(c *cli.Command, in SubmitInput, outcome review.Outcome) error {
	w := c.Root().Writer
	if outcome.Kind != review.OutcomeSuccess {
		if err := iojson.WriteError(w, outcome.Message, map[string]any{
			"reason": string(sentiment.ReasonOf(outcome.Err)),
		}); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}

	return iojson.WriteWith(w, c.Root().ErrWriter, SubmitOutput{
		Customer:  in.Customer,
		Product:   cmd.app.Config.Product.Name,
		Feedback:  in.Feedback,
		Sentiment: outcome.Label,
	})
}

func (cmd *SubmitCmd) outputText(p *printer.Printer, outcome review.Outcome) error {
	if outcome.Kind != review.OutcomeSuccess {
		p.Errorf("%s", outcome.Message)
		return cli.Exit("", 1)
	}

	p.Successf("Thank you for your review!")
	p.Printf("Sentiment: %s", outcome.Label)
	return nil
}
