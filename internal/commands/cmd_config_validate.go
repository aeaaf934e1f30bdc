package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sentiview/internal/core/styles"
	"github.com/colonyops/sentiview/internal/printer"
	"github.com/colonyops/sentiview/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// ValidationIssue is one failed check.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "sentiview config validate [options]",
				Description: "Validates the configuration file, checking the gateway endpoint, theme, server limits, and file paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	issues := collectIssues(cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath))

	if cmd.format == "json" {
		return cmd.outputJSON(c, issues)
	}

	return cmd.outputText(printer.Ctx(ctx), issues)
}

func collectIssues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationIssue{{Message: err.Error()}}
	}

	issues := make([]ValidationIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, ValidationIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues
}

func (cmd *ConfigValidateCmd) outputJSON(c *cli.Command, issues []ValidationIssue) error {
	out := struct {
		Valid  bool              `json:"valid"`
		Path   string            `json:"path"`
		Errors []ValidationIssue `json:"errors,omitempty"`
	}{
		Valid:  len(issues) == 0,
		Path:   cmd.flags.ConfigPath,
		Errors: issues,
	}

	if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
		return err
	}
	if !out.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *ConfigValidateCmd) outputText(p *printer.Printer, issues []ValidationIssue) error {
	for _, issue := range issues {
		if issue.Field != "" {
			p.Errorf("%s: %s", issue.Field, issue.Message)
		} else {
			p.Errorf("%s", issue.Message)
		}
	}

	p.Printf("")
	if len(issues) == 0 {
		p.Successf("Configuration is valid")
		p.Printf("  Endpoint: %s", cmd.flags.Config.Gateway.Endpoint)
		p.Printf("  Product:  %s", cmd.flags.Config.Product.Name)
		p.Printf("  Themes:   %s", strings.Join(styles.ThemeNames(), ", "))
		return nil
	}

	p.Errorf("%d error(s) found", len(issues))
	return cli.Exit("", 1)
}
