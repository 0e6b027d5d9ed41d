package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec
	// DB
	DbQueryDuration *prometheus.HistogramVec
	DbErrorsTotal   *prometheus.CounterVec

	// diagnosis
	DiagnosisDuration *prometheus.HistogramVec
	UrgencyTotal      *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arogyamitra",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "arogyamitra",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				// assessment requests wait on the model, so the tail goes past 10s
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "arogyamitra",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		DbQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "arogyamitra",
				Subsystem: "db",
				Name:      "query_duration_seconds",
				Help:      "DB operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		DbErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arogyamitra",
				Subsystem: "db",
				Name:      "errors_total",
				Help:      "DB errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		DiagnosisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "arogyamitra",
				Subsystem: "diagnosis",
				Name:      "duration_seconds",
				Help:      "Generative model call duration by result.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30},
			},
			[]string{"result"}, // result=ok|empty|timeout|error|circuit_open
		),
		UrgencyTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arogyamitra",
				Name:      "urgency_total",
				Help:      "Assessments by derived urgency label.",
			},
			[]string{"level"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arogyamitra",
				Subsystem: "reports_cache",
				Name:      "lookups_total",
				Help:      "Report list cache lookups by outcome.",
			},
			[]string{"outcome"}, // outcome=hit|miss|error
		),
	}
	reg.MustRegister(
		p.RequestsTotal, p.RequestsDuration, p.InFlight,
		p.DbQueryDuration, p.DbErrorsTotal,
		p.DiagnosisDuration, p.UrgencyTotal, p.CacheLookups,
	)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveDiagnosis records one model call. Safe on a nil receiver.
func (p *Prom) ObserveDiagnosis(result string, d time.Duration) {
	if p == nil {
		return
	}
	p.DiagnosisDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (p *Prom) IncUrgency(level string) {
	if p == nil {
		return
	}
	p.UrgencyTotal.WithLabelValues(level).Inc()
}

func (p *Prom) IncCacheLookup(outcome string) {
	if p == nil {
		return
	}
	p.CacheLookups.WithLabelValues(outcome).Inc()
}
