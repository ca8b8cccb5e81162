// Package metrics exposes Prometheus collectors for the auction service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chit_auction",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)

	bids = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "auction",
			Name:      "bids_total",
			Help:      "Bid attempts by outcome.",
		},
		[]string{"result"},
	)

	finalizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "auction",
			Name:      "finalizations_total",
			Help:      "Rounds finalized, by trigger and whether a winner was found.",
		},
		[]string{"trigger", "winner"},
	)

	settlements = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "auction",
			Name:      "settlements_total",
			Help:      "Rounds settled into the ledger.",
		},
	)

	settledChits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "ledger",
			Name:      "settled_chits_total",
			Help:      "Chit entries updated by settlement fan-out.",
		},
	)

	secondsLeft = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chit_auction",
			Subsystem: "auction",
			Name:      "seconds_left",
			Help:      "Remaining seconds of the running round as last computed by this process.",
		},
	)

	currentLoss = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chit_auction",
			Subsystem: "auction",
			Name:      "current_loss",
			Help:      "Current highest loss of the round.",
		},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Key-value store failures by operation.",
		},
		[]string{"op"},
	)

	requestDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chit_auction",
			Subsystem: "requests",
			Name:      "decisions_total",
			Help:      "Admin decisions on user requests.",
		},
		[]string{"type", "status"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		bids,
		finalizations,
		settlements,
		settledChits,
		secondsLeft,
		currentLoss,
		storeErrors,
		requestDecisions,
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordBid counts a bid attempt; result is "accepted" or the rejection reason.
func RecordBid(result string) {
	bids.WithLabelValues(result).Inc()
}

// RecordFinalize counts a finalization.
func RecordFinalize(trigger string, hasWinner bool) {
	finalizations.WithLabelValues(trigger, strconv.FormatBool(hasWinner)).Inc()
}

// RecordSettlement counts a settlement and the chits it touched.
func RecordSettlement(touched int) {
	settlements.Inc()
	settledChits.Add(float64(touched))
}

// SetRound publishes the countdown and loss gauges.
func SetRound(left int, loss int64) {
	secondsLeft.Set(float64(left))
	currentLoss.Set(float64(loss))
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) {
	storeErrors.WithLabelValues(op).Inc()
}

// RecordRequestDecision counts an approval or rejection.
func RecordRequestDecision(requestType, status string) {
	requestDecisions.WithLabelValues(requestType, status).Inc()
}
