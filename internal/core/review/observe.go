package review

import (
	"github.com/rs/zerolog"
)

// LogTransitions returns a subscriber that writes each snapshot to logger at
// debug level. Failure outcomes are logged at warn level with their cause.
func LogTransitions(logger zerolog.Logger) Subscriber {
	return func(v ViewState) {
		ev := logger.Debug()
		if f := v.Failure(); f != nil {
			ev = logger.Warn().Err(f.Err)
		}

		ev = ev.
			Bool("modal_open", v.ModalOpen).
			Bool("loading", v.Loading).
			Bool("draft_complete", v.Draft.Complete())

		if v.Outcome != nil {
			ev = ev.Str("outcome", string(v.Outcome.Kind))
			if v.Outcome.Label != "" {
				ev = ev.Str("sentiment", v.Outcome.Label)
			}
		}

		ev.Msg("review state changed")
	}
}
