package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AllocationTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taallocation", Name: "transitions_total",
		Help: "Allocation engine operations by outcome",
	}, []string{"operation", "outcome"})

	TransactionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taallocation", Name: "db_transaction_seconds",
		Help:    "Duration of store transactions",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	NotificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taallocation", Name: "notification_failures_total",
		Help: "Notifications that could not be delivered",
	}, []string{"event"})

	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taallocation", Name: "http_request_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	DBUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "taallocation", Name: "db_up",
		Help: "1 when the last database ping succeeded",
	})
)

func init() {
	prometheus.MustRegister(AllocationTransitions, TransactionDuration, NotificationFailures, HTTPRequests, DBUp)
}

func Handler() http.Handler { return promhttp.Handler() }

// RecordTransition counts one allocate/deallocate/freeze attempt
func RecordTransition(operation, outcome string) {
	AllocationTransitions.WithLabelValues(operation, outcome).Inc()
}

func ObserveTransaction(d time.Duration, committed bool) {
	status := "committed"
	if !committed {
		status = "rolled_back"
	}
	TransactionDuration.WithLabelValues(status).Observe(d.Seconds())
}

func NotificationFailed(event string) { NotificationFailures.WithLabelValues(event).Inc() }

func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func SetDBUp(up bool) {
	if up {
		DBUp.Set(1)
		return
	}
	DBUp.Set(0)
}
