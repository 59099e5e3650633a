package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentshare",
			Name:      "booking_created_total",
			Help:      "Count of bookings created by status.",
		},
		[]string{"status"},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rentshare",
			Name:      "booking_conflict_total",
			Help:      "Count of booking requests rejected for overlapping an existing booking.",
		},
	)

	bookingTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentshare",
			Name:      "booking_transition_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"to"},
	)

	messageSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rentshare",
			Name:      "message_sent_total",
			Help:      "Count of chat messages sent.",
		},
	)

	availabilityCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentshare",
			Name:      "availability_cache_total",
			Help:      "Availability cache lookups by result.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rentshare",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "code"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflict, bookingTransition, messageSent, availabilityCache, httpRequests)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncBookingCreated(status string) {
	bookingCreated.WithLabelValues(status).Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncBookingTransition(to string) {
	bookingTransition.WithLabelValues(to).Inc()
}

func IncMessageSent() {
	messageSent.Inc()
}

func IncAvailabilityCache(hit bool) {
	if hit {
		availabilityCache.WithLabelValues("hit").Inc()
		return
	}
	availabilityCache.WithLabelValues("miss").Inc()
}

func ObserveHTTPRequest(route string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
