package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sentiview/internal/commands"
	"github.com/colonyops/sentiview/internal/core/config"
	"github.com/colonyops/sentiview/internal/core/styles"
	"github.com/colonyops/sentiview/internal/sentiview"
	"github.com/colonyops/sentiview/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// ldflags aren't set by `go install module@version`, so fall back to
	// the module version and VCS metadata Go records in the binary.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		app       = &sentiview.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "sentiview",
		Usage:     "Collect product reviews and classify their sentiment",
		UsageText: "sentiview [global options] command [command options]",
		Description: `Sentiview shows a product card in the terminal and lets visitors leave a
review. Each review is posted to a sentiment service, and the label it returns
is shown on a thank-you panel.

Run 'sentiview' with no arguments to open the review screen.
Run 'sentiview serve' to start a local classification service.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SENTIVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, '-' for stderr (defaults to <data-dir>/sentiview.log)",
				Sources:     cli.EnvVars("SENTIVIEW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SENTIVIEW_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("SENTIVIEW_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "endpoint",
				Usage:       "sentiment service feedback URL (overrides gateway.endpoint)",
				Sources:     cli.EnvVars("SENTIVIEW_ENDPOINT"),
				Destination: &flags.Endpoint,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// The TUI owns the terminal, so logs go to a file unless asked otherwise.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "sentiview.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			if flags.Endpoint != "" {
				cfg.Gateway.Endpoint = flags.Endpoint
				if err := cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("endpoint: %w", err)
				}
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			flags.Config = cfg

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *sentiview.NewApp(cfg, nil)

			log.Debug().
				Str("config", flags.ConfigPath).
				Str("endpoint", cfg.Gateway.Endpoint).
				Msg("sentiview initialized")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)

	root = commands.NewSubmitCmd(flags, app).Register(root)
	root = commands.NewServeCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'sentiview --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := root.Run(ctx, os.Args)
	if runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Println()
			fmt.Println(msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
