package telemetry

import "github.com/prometheus/client_golang/prometheus"

// PrometheusTelemetry implements Telemetry on top of a small set of
// counters, the same shape marmos91-dittofs and gravitational-teleport
// use for their own internal bookkeeping (one vector per concern,
// labeled by feature).
type PrometheusTelemetry struct {
	eventsDropped *prometheus.CounterVec
	filesDeleted  *prometheus.CounterVec
	filesRetained *prometheus.CounterVec
	blockers      *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	ioErrors      *prometheus.CounterVec
}

// NewPrometheusTelemetry registers the pipeline's counters on reg. If
// reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusTelemetry(reg prometheus.Registerer) *PrometheusTelemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &PrometheusTelemetry{
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "events_dropped_total",
			Help: "Events discarded before ever reaching disk.",
		}, []string{"feature", "reason"}),
		filesDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "files_deleted_total",
			Help: "Batch files removed after a terminal outcome.",
		}, []string{"feature", "reason"}),
		filesRetained: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "files_retained_total",
			Help: "Batch files kept on disk for a later retry.",
		}, []string{"feature", "reason"}),
		blockers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "upload_blockers_total",
			Help: "Device-health preconditions that prevented an upload attempt.",
		}, []string{"feature", "blocker"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "upload_outcomes_total",
			Help: "Upload attempts by outcome.",
		}, []string{"feature", "outcome"}),
		ioErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "telemetry_pipeline", Name: "io_errors_total",
			Help: "Best-effort filesystem failures, by operation.",
		}, []string{"feature", "op"}),
	}
	reg.MustRegister(t.eventsDropped, t.filesDeleted, t.filesRetained, t.blockers, t.uploads, t.ioErrors)
	return t
}

func (t *PrometheusTelemetry) EventDropped(feature, reason string) {
	t.eventsDropped.WithLabelValues(feature, reason).Inc()
}

func (t *PrometheusTelemetry) FileDeleted(feature, reason string) {
	t.filesDeleted.WithLabelValues(feature, reason).Inc()
}

func (t *PrometheusTelemetry) FileRetained(feature, reason string) {
	t.filesRetained.WithLabelValues(feature, reason).Inc()
}

func (t *PrometheusTelemetry) BlockerObserved(feature, blocker string) {
	t.blockers.WithLabelValues(feature, blocker).Inc()
}

func (t *PrometheusTelemetry) UploadOutcome(feature, outcome string) {
	t.uploads.WithLabelValues(feature, outcome).Inc()
}

func (t *PrometheusTelemetry) IOError(feature, op string, err error) {
	t.ioErrors.WithLabelValues(feature, op).Inc()
}
