package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tatianab/zork-parser/internal/events"
)

// Metrics holds the Prometheus collectors for one game process. It is an
// events.Subscriber.
type Metrics struct {
	registry  *prometheus.Registry
	startTime time.Time

	commandsTotal *prometheus.CounterVec
	verbsTotal    *prometheus.CounterVec
	promptsTotal  prometheus.Counter
	candidates    prometheus.Histogram
	replaysTotal  prometheus.Counter
	restartsTotal prometheus.Counter
	turn          prometheus.Gauge
	uptime        prometheus.GaugeFunc
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry:  prometheus.NewRegistry(),
		startTime: time.Now(),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zparse_commands_total",
			Help: "Parsed inputs by outcome kind.",
		}, []string{"kind"}),
		verbsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zparse_verbs_total",
			Help: "Successfully parsed commands by verb.",
		}, []string{"verb"}),
		promptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zparse_disambiguation_prompts_total",
			Help: "Times the player was asked which object they meant.",
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "zparse_disambiguation_candidates",
			Help:    "Number of candidates offered per disambiguation prompt.",
			Buckets: []float64{2, 3, 4, 6, 10},
		}),
		replaysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zparse_replays_total",
			Help: "Inputs re-parsed by AGAIN or OOPS.",
		}),
		restartsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zparse_restarts_total",
			Help: "Times the world was rebuilt.",
		}),
		turn: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zparse_turn",
			Help: "Current move count.",
		}),
	}
	m.uptime = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "zparse_uptime_seconds",
		Help: "Seconds since the game started.",
	}, func() float64 { return time.Since(m.startTime).Seconds() })

	m.registry.MustRegister(
		m.commandsTotal,
		m.verbsTotal,
		m.promptsTotal,
		m.candidates,
		m.replaysTotal,
		m.restartsTotal,
		m.turn,
		m.uptime,
	)
	return m
}

// Receive implements events.Subscriber.
func (m *Metrics) Receive(ev events.Event) {
	switch ev.Type {
	case events.EvParsed:
		m.commandsTotal.WithLabelValues("ok").Inc()
		if ev.Verb != "" {
			m.verbsTotal.WithLabelValues(ev.Verb).Inc()
		}
	case events.EvRejected:
		kind := ev.Kind
		if kind == "" {
			kind = "empty"
		}
		m.commandsTotal.WithLabelValues(kind).Inc()
	case events.EvPrompted:
		m.promptsTotal.Inc()
		m.candidates.Observe(float64(ev.Candidates))
	case events.EvReplayed:
		m.replaysTotal.Inc()
	case events.EvRestart:
		m.restartsTotal.Inc()
	}
	if ev.Turn > 0 {
		m.turn.Set(float64(ev.Turn))
	}
}

// Closed implements events.Subscriber.
func (m *Metrics) Closed() bool { return false }

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
