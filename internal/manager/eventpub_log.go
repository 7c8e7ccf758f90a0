package manager

import "github.com/rs/zerolog"

// LogPublisher writes events to a zerolog logger at debug level, or warn for
// load_fallback, or error for load_fail.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: l.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(e Event) {
	var ev *zerolog.Event
	switch e.Name {
	case EventLoadFail:
		ev = p.log.Error()
	case EventLoadFallback:
		ev = p.log.Warn()
	default:
		ev = p.log.Debug()
	}
	ev.Fields(e.Fields).Str("event", e.Name).Msg("manager event")
}
