// Package logging provides component loggers and context-carried log fields.
package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// ComponentCtx is Component with ctx bound to every event, so ContextHook
// can pick up the attempt and request IDs.
func ComponentCtx(ctx context.Context, name string) zerolog.Logger {
	return log.With().Str("cmp", name).Ctx(ctx).Logger().Hook(ContextHook{})
}
