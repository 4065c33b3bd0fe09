package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "payroute"

// Quote request outcomes
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// Price lookup sources
const (
	PriceSourceCache = "cache"
	PriceSourceAPI   = "api"
	PriceSourceError = "error"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	quoteRequests    *prometheus.CounterVec
	quoteLatency     prometheus.Histogram
	routeResults     *prometheus.CounterVec
	routeOracleCalls prometheus.Histogram
	priceLookups     *prometheus.CounterVec
	paymentLinks     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_requests_total",
			Help:      "Aggregator route requests by outcome.",
		}, []string{"outcome"}),
		quoteLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_request_duration_seconds",
			Help:      "Aggregator route request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		routeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_results_total",
			Help:      "Route resolutions by amount mode and outcome.",
		}, []string{"mode", "outcome"}),
		routeOracleCalls: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_oracle_calls",
			Help:      "Aggregator quotes issued per route resolution.",
			Buckets:   []float64{1, 2, 3, 4},
		}),
		priceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_lookups_total",
			Help:      "Token price lookups by source.",
		}, []string{"source"}),
		paymentLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_links_total",
			Help:      "Payment link parse and validation results.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.quoteRequests, m.quoteLatency, m.routeResults, m.routeOracleCalls, m.priceLookups, m.paymentLinks)
	}
	return m
}

func (m *Metrics) ObserveQuote(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.quoteRequests.WithLabelValues(outcome).Inc()
	m.quoteLatency.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRoute(mode, outcome string, oracleCalls int) {
	if m == nil {
		return
	}
	m.routeResults.WithLabelValues(mode, outcome).Inc()
	m.routeOracleCalls.Observe(float64(oracleCalls))
}

func (m *Metrics) ObservePriceLookup(source string) {
	if m == nil {
		return
	}
	m.priceLookups.WithLabelValues(source).Inc()
}

// ObservePaymentLink counts a payment link result: "ok" or an error code
func (m *Metrics) ObservePaymentLink(result string) {
	if m == nil {
		return
	}
	m.paymentLinks.WithLabelValues(result).Inc()
}
