package manager

import "time"

// Lifecycle event names published while acquiring the model handle.
const (
	EventLoadStart    = "load_start"
	EventLoadFallback = "load_fallback"
	EventLoadReady    = "load_ready"
	EventLoadFail     = "load_fail"
)

// Event is one step of the handle lifecycle. Fields carry optional key/values
// such as model_path, error or dur_ms.
type Event struct {
	Name   string
	At     time.Time
	Fields map[string]any
}

// EventPublisher receives events from the manager. Publish is called on the
// loading goroutine and must not block.
type EventPublisher interface {
	Publish(Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// emit stamps and publishes a lifecycle event.
func (m *Manager) emit(name string, fields map[string]any) {
	m.publisher.Publish(Event{Name: name, At: time.Now(), Fields: fields})
}
