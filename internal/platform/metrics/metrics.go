package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the storefront client.
type Metrics struct {
	CartAdds       prometheus.Counter
	DeferredAdds   prometheus.Counter
	CartMerges     prometheus.Counter
	Checkouts      prometheus.Counter
	RequestLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the given registerer.
// Passing a fresh registry keeps tests isolated from the default one.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CartAdds: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_adds_total",
			Help: "Total number of items added to a cart",
		}),
		DeferredAdds: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_deferred_adds_total",
			Help: "Total number of add-to-cart attempts deferred pending login",
		}),
		CartMerges: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_cart_merges_total",
			Help: "Total number of guest-to-user cart merges performed at login",
		}),
		Checkouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Total number of orders submitted at checkout",
		}),
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Latency of console surface requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}
