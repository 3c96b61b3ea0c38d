package telemetry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// globalRegistry holds the singleton Registry instance.
	// atomic.Value gives lock-free reads on the hot path (event emission);
	// it is written once during Initialize() and read on every Log().
	globalRegistry atomic.Value // *Registry

	// initOnce ensures Initialize() can only succeed once.
	initOnce sync.Once

	// declaredMetrics stores metric declarations made from init()
	// functions, before the telemetry system itself is initialized.
	declaredMetrics sync.Map // map[string]ModuleConfig

	// Internal health counters, tracked atomically.
	telemetryErrors  atomic.Int64 // total emission errors
	telemetryDropped atomic.Int64 // events dropped by the circuit breaker
)

// Sink receives fully assembled events. The production sink exports
// through OpenTelemetry; tests substitute an in-memory capture.
type Sink interface {
	LogTelemetry(ctx context.Context, ev Event) error
	Shutdown(ctx context.Context) error
}

// ModuleConfig declares the metrics one SDK component emits.
type ModuleConfig struct {
	Metrics []MetricDefinition
}

// MetricDefinition defines a metric's metadata.
type MetricDefinition struct {
	Name    string
	Type    string // counter, histogram
	Help    string
	Labels  []string
	Unit    string    // optional: milliseconds, shots, etc.
	Buckets []float64 // optional: for histograms
}

// Registry coordinates the emission pipeline: circuit breaker, cardinality
// limiter, and sink. Fields touched concurrently use atomics.
type Registry struct {
	config  Config
	sink    Sink
	limiter *CardinalityLimiter
	circuit *CircuitBreaker
	logger  *Logger

	emitted   atomic.Int64
	startTime time.Time
	lastError atomic.Value // string

	// errorLimiter keeps a failing backend from flooding the logs.
	errorLimiter *RateLimiter
}

// DeclareMetrics registers metric definitions for an SDK component.
// Safe to call from init() functions before Initialize(); declarations
// are stored and pre-registered with the sink when Initialize runs.
func DeclareMetrics(module string, config ModuleConfig) {
	declaredMetrics.Store(module, config)
}

// Initialize activates the telemetry system with the given configuration.
// Call it once at SDK startup, before any events are emitted. It is safe
// to call multiple times; only the first call takes effect.
//
// If cfg.Enabled is false, or initialization fails, the hook functions
// stay silent no-ops so the SDK keeps working without telemetry.
func Initialize(cfg Config) error {
	var initErr error
	initOnce.Do(func() {
		logger := NewLogger(cfg.ServiceName)

		if !cfg.Enabled {
			logger.Info("Telemetry disabled by configuration", nil)
			return
		}

		logger.Info("Telemetry initialization starting", map[string]interface{}{
			"service_name":      cfg.ServiceName,
			"endpoint":          cfg.Endpoint,
			"exporter":          cfg.Exporter,
			"cardinality_limit": cfg.CardinalityLimit,
			"circuit_enabled":   cfg.CircuitBreaker.Enabled,
		})

		registry, err := newRegistry(cfg)
		if err != nil {
			initErr = err
			logger.Error("Telemetry initialization failed", map[string]interface{}{
				"error":    err.Error(),
				"endpoint": cfg.Endpoint,
				"action":   "Check the OTLP collector is reachable at the endpoint",
				"impact":   "No telemetry events will be sent",
			})
			return
		}
		registry.logger = logger

		// Pre-register everything declared via DeclareMetrics().
		declaredCount := 0
		declaredMetrics.Range(func(key, value interface{}) bool {
			registry.registerModule(key.(string), value.(ModuleConfig))
			declaredCount++
			return true
		})

		globalRegistry.Store(registry)
		logger.EnableMetrics()

		logger.Info("Telemetry system initialized", map[string]interface{}{
			"declared_modules":  declaredCount,
			"circuit_enabled":   registry.circuit != nil,
			"limiter_enabled":   registry.limiter != nil,
			"initialization_ms": time.Since(registry.startTime).Milliseconds(),
		})
	})
	return initErr
}

// newRegistry creates the registry and its sink.
func newRegistry(cfg Config) (*Registry, error) {
	startTime := time.Now()

	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4318"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "qsim"
	}
	if cfg.Exporter == "" {
		cfg.Exporter = ExporterOTLP
	}
	if cfg.CardinalityLimit == 0 {
		cfg.CardinalityLimit = 10000
	}

	sink, err := NewOTelSink(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTel sink: %w", err)
	}

	limits := cfg.CardinalityLimits
	if limits == nil {
		limits = map[string]int{
			PropProfile:  20,
			"error_type": 50,
		}
	}

	r := &Registry{
		config:       cfg,
		sink:         sink,
		limiter:      NewCardinalityLimiter(limits),
		circuit:      NewCircuitBreaker(cfg.CircuitBreaker),
		startTime:    startTime,
		errorLimiter: NewRateLimiter(1 * time.Second),
	}
	r.lastError.Store("")

	return r, nil
}

// registerModule pre-creates sink instruments for a module's declared
// metrics so the first real event pays no creation cost.
func (r *Registry) registerModule(_ string, config ModuleConfig) {
	sink, ok := r.sink.(*OTelSink)
	if !ok {
		return
	}
	ctx := context.Background()
	for _, metric := range config.Metrics {
		switch metric.Type {
		case "histogram":
			_ = sink.instruments.RecordHistogram(ctx, metric.Name, 0)
		default:
			_ = sink.instruments.RecordCounter(ctx, metric.Name, 0)
		}
	}
}

// log runs one event through the pipeline with all safety checks.
func (r *Registry) log(ev Event) error {
	if r.circuit != nil && !r.circuit.Allow() {
		telemetryDropped.Add(1)
		return fmt.Errorf("telemetry circuit breaker open")
	}

	// Bound the cardinality of string-valued properties. Numeric
	// properties are already bucketed by the hooks.
	if r.limiter != nil {
		for key, val := range ev.Properties {
			s, isString := val.(string)
			if !isString {
				continue
			}
			if limited := r.limiter.CheckAndLimit(ev.Name, key, s); limited != s {
				ev.Properties[key] = limited
			}
		}
	}

	if r.sink != nil {
		if err := r.sink.LogTelemetry(context.Background(), ev); err != nil {
			return err
		}
		r.emitted.Add(1)
		if r.circuit != nil {
			r.circuit.RecordSuccess()
		}
	}

	return nil
}

// Shutdown flushes exporters and stops the telemetry system. After
// Shutdown the hook functions revert to silent no-ops.
func Shutdown(ctx context.Context) error {
	r, ok := globalRegistry.Load().(*Registry)
	if !ok || r == nil {
		return nil
	}

	if r.logger != nil {
		r.logger.Info("Shutting down telemetry system", map[string]interface{}{
			"total_emitted": r.emitted.Load(),
			"uptime_ms":     time.Since(r.startTime).Milliseconds(),
		})
	}

	if r.limiter != nil {
		r.limiter.Stop()
	}

	if r.sink != nil {
		if err := r.sink.Shutdown(ctx); err != nil {
			if r.logger != nil {
				r.logger.Error("Error during sink shutdown", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return err
		}
	}

	// Typed nil so Log's type assertion turns emission back into a no-op.
	globalRegistry.Store((*Registry)(nil))

	if r.logger != nil {
		r.logger.Info("Telemetry system shut down", nil)
	}
	return nil
}

// GetRegistry returns the current registry (for testing).
func GetRegistry() *Registry {
	r, ok := globalRegistry.Load().(*Registry)
	if !ok {
		return nil
	}
	return r
}
