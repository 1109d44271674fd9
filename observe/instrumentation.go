package observe

// Instrumentation bundles the telemetry primitives the executor records
// through. Pipeline stages emit at different points (cache hits skip the
// plugin entirely, rejections never run it), so the executor holds the
// pieces directly rather than wrapping a single around-execution middleware.
type Instrumentation struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstrumentation builds Instrumentation from an Observer.
func NewInstrumentation(obs Observer) (*Instrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instrumentation{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// NoopInstrumentation returns Instrumentation that records nothing.
func NoopInstrumentation() *Instrumentation {
	return &Instrumentation{
		Tracer:  NoopTracer(),
		Metrics: NoopMetrics(),
		Logger:  &noopLogger{},
	}
}
