package metrics

// CompositeLogger fans a single Emit out to multiple sinks independently:
// a panic or failure inside one sink's Emit must not prevent the others
// from receiving the event (spec.md §4.9).
type CompositeLogger struct {
	sinks []Logger
}

// NewCompositeLogger builds a CompositeLogger fanning out to sinks, in order.
func NewCompositeLogger(sinks ...Logger) *CompositeLogger {
	return &CompositeLogger{sinks: sinks}
}

// Emit calls Emit on every sink, recovering from a panic in any one sink so
// the remaining sinks still receive the event.
func (c *CompositeLogger) Emit(event Event) {
	for _, sink := range c.sinks {
		c.emitOne(sink, event)
	}
}

func (c *CompositeLogger) emitOne(sink Logger, event Event) {
	defer func() { _ = recover() }()
	sink.Emit(event)
}
