package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rental"

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created by payment method.",
		},
		[]string{"payment_method"},
	)

	reservationsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_failed_total",
			Help:      "Stock reservations refused by item type and reason.",
		},
		[]string{"item_type", "reason"},
	)

	stockReleased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_released_units_total",
			Help:      "Units returned to inventory by item type and cause.",
		},
		[]string{"item_type", "cause"},
	)

	paymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_verifications_total",
			Help:      "Wallet payment verifications by outcome.",
		},
		[]string{"outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by kind and result.",
		},
		[]string{"kind", "result"},
	)

	realtimeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_connections",
			Help:      "Open realtime connections on this instance.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingsCreated,
			reservationsFailed,
			stockReleased,
			paymentVerifications,
			notifications,
			realtimeConnections,
			httpRequests,
			httpDuration,
		)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func IncBookingCreated(paymentMethod string) {
	bookingsCreated.WithLabelValues(paymentMethod).Inc()
}

func IncReservationFailed(itemType, reason string) {
	reservationsFailed.WithLabelValues(itemType, reason).Inc()
}

func AddStockReleased(itemType, cause string, units int) {
	stockReleased.WithLabelValues(itemType, cause).Add(float64(units))
}

func IncPaymentVerification(outcome string) {
	paymentVerifications.WithLabelValues(outcome).Inc()
}

func IncNotification(kind, result string) {
	notifications.WithLabelValues(kind, result).Inc()
}

func RealtimeConnected() {
	realtimeConnections.Inc()
}

func RealtimeDisconnected() {
	realtimeConnections.Dec()
}

func ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
