package observability

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scan results recorded by ObserveScan.
const (
	ScanGated       = "gated"
	ScanNothingDue  = "nothing_due"
	ScanDelivered   = "delivered"
	ScanUndelivered = "undelivered"
)

// Metrics holds the Prometheus metrics of the bot.
type Metrics struct {
	// Registry is exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	settlements      *prometheus.CounterVec
	scans            *prometheus.CounterVec
	alerts           *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	reportsDelivered prometheus.Counter
}

// NewMetrics registers all metrics in a private registry, so tests can build
// as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "church_finance_settlements_total",
				Help: "Scheduled item payments by outcome.",
			},
			[]string{"outcome"},
		),
		scans: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "church_finance_reminder_scans_total",
				Help: "Reminder scans by result.",
			},
			[]string{"result"},
		),
		alerts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "church_finance_reminder_alerts_total",
				Help: "Delivered reminder alerts by bucket.",
			},
			[]string{"bucket"},
		),
		deliveryFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "church_finance_delivery_failures_total",
				Help: "Failed deliveries by channel.",
			},
			[]string{"channel"},
		),
		reportsDelivered: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "church_finance_reports_delivered_total",
				Help: "Overdue/upcoming reports delivered on acknowledgement.",
			},
		),
	}
}

func (m *Metrics) ObserveSettlement(outcome string) {
	m.settlements.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveScan(result string) {
	m.scans.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveAlert(bucket string) {
	m.alerts.WithLabelValues(bucket).Inc()
}

func (m *Metrics) ObserveDeliveryFailure(channel string) {
	m.deliveryFailures.WithLabelValues(channel).Inc()
}

func (m *Metrics) ObserveReport() {
	m.reportsDelivered.Inc()
}

// NewRouter serves /metrics and /healthz.
func NewRouter(m *Metrics) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return r
}
