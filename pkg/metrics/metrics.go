package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shuliakovsky/wg-endpoints/pkg/peers"
)

var (
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wge_refresh_total", Help: "Refresh cycles by result"},
		[]string{"result"},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "wge_refresh_duration_seconds", Help: "Duration of refresh cycles", Buckets: prometheus.DefBuckets},
	)
	Peers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "wge_peers", Help: "Peers with an endpoint in the current snapshot"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wge_http_requests_total", Help: "HTTP requests by route and status code"},
		[]string{"route", "code"},
	)
	WSConnected = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "wge_ws_connected_total", Help: "Total WebSocket subscriptions"},
	)
	WSError = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "wge_ws_errors_total", Help: "WebSocket errors"},
	)
)

func Init(store *peers.Store) {
	snapshotAge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{Name: "wge_snapshot_age_seconds", Help: "Seconds since the current snapshot was published"},
		func() float64 {
			snap := store.Snapshot()
			if snap.UpdatedAt.IsZero() {
				return -1
			}
			return time.Since(snap.UpdatedAt).Seconds()
		},
	)
	prometheus.MustRegister(RefreshTotal, RefreshDuration, Peers, snapshotAge)
	prometheus.MustRegister(HTTPRequests, WSConnected, WSError)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
