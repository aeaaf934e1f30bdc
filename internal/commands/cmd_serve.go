package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/sentiview/internal/printer"
	"github.com/colonyops/sentiview/internal/server"
)

const serveShutdownTimeout = 5 * time.Second

type ServeCmd struct {
	flags *Flags

	addr      string
	rateLimit float64
	burst     int
	pprof     bool
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the local classification server",
		UsageText: "sentiview serve [--addr ADDR] [--rate-limit N] [--burst N]",
		Description: `Runs a development stand-in for the sentiment service. It implements
POST /feedback, POST /analyze-sentiment, POST /analyze-sentiment-detailed and
GET /health, classifying text with a built-in word list.

Flags override the server section of the config file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to server.addr)",
				Sources:     cli.EnvVars("SENTIVIEW_SERVER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.FloatFlag{
				Name:        "rate-limit",
				Usage:       "requests per second, 0 disables (defaults to server.rate_limit)",
				Value:       -1,
				Destination: &cmd.rateLimit,
			},
			&cli.IntFlag{
				Name:        "burst",
				Usage:       "rate limiter burst size (defaults to server.burst)",
				Value:       -1,
				Destination: &cmd.burst,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "expose runtime profiles under /debug/pprof",
				Sources:     cli.EnvVars("SENTIVIEW_PPROF"),
				Destination: &cmd.pprof,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) options() server.Options {
	cfg := cmd.flags.Config.Server
	opts := server.Options{
		Addr:      cfg.Addr,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Pprof:     cmd.pprof,
	}

	if cmd.addr != "" {
		opts.Addr = cmd.addr
	}
	if cmd.rateLimit >= 0 {
		opts.RateLimit = cmd.rateLimit
	}
	if cmd.burst >= 0 {
		opts.Burst = cmd.burst
	}
	return opts
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cmd.options())
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	p.Successf("Listening on http://%s", srv.Addr())
	p.Printf("Press Ctrl+C to stop")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown classification server")
		return fmt.Errorf("shutdown server: %w", err)
	}

	p.Infof("Server stopped")
	return nil
}
