package telemetry

// Metric declarations for the SDK lifecycle events. Declared here so the
// instruments exist before the entry points start emitting.

func init() {
	DeclareMetrics("simulator", ModuleConfig{
		Metrics: []MetricDefinition{
			{
				Name:   EventSimulate,
				Type:   "counter",
				Help:   "Simulation runs started",
				Labels: []string{PropShots},
			},
			{
				Name:    EventSimulateDuration,
				Type:    "histogram",
				Help:    "Simulation run duration in milliseconds",
				Labels:  []string{PropShots},
				Unit:    "ms",
				Buckets: []float64{10, 100, 1000, 10000, 60000},
			},
			{
				Name:   EventSimulateNoisy,
				Type:   "counter",
				Help:   "Noisy simulation runs started",
				Labels: []string{PropShots, PropQubits},
			},
			{
				Name:    EventSimulateNoisyDuration,
				Type:    "histogram",
				Help:    "Noisy simulation run duration in milliseconds",
				Labels:  []string{PropShots, PropQubits},
				Unit:    "ms",
				Buckets: []float64{10, 100, 1000, 10000, 60000},
			},
		},
	})

	DeclareMetrics("compiler", ModuleConfig{
		Metrics: []MetricDefinition{
			{
				Name:   EventCompile,
				Type:   "counter",
				Help:   "Compilations started",
				Labels: []string{PropProfile},
			},
			{
				Name:    EventCompileDuration,
				Type:    "histogram",
				Help:    "Compilation duration in milliseconds",
				Labels:  []string{PropProfile},
				Unit:    "ms",
				Buckets: []float64{1, 10, 100, 1000, 10000},
			},
		},
	})

	DeclareMetrics("estimator", ModuleConfig{
		Metrics: []MetricDefinition{
			{
				Name: EventEstimate,
				Type: "counter",
				Help: "Resource estimations started",
			},
			{
				Name:    EventEstimateDuration,
				Type:    "histogram",
				Help:    "Resource estimation duration in milliseconds",
				Unit:    "ms",
				Buckets: []float64{10, 100, 1000, 10000, 60000},
			},
		},
	})

	DeclareMetrics("session", ModuleConfig{
		Metrics: []MetricDefinition{
			{
				Name: EventInit,
				Type: "counter",
				Help: "SDK sessions started",
			},
		},
	})
}
