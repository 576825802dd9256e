// Package metrics holds the client's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	FeedSnapshots = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatroom_feed_snapshots_total",
		Help: "Snapshots applied to a message feed.",
	})

	FeedSends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatroom_feed_sends_total",
		Help: "Message sends by result (ok, error, discarded).",
	}, []string{"result"})

	FeedSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatroom_feed_subscriptions_active",
		Help: "Live feed subscriptions held by this process.",
	})

	AuthAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatroom_auth_attempts_total",
		Help: "Sign-in and sign-up attempts by operation and result code.",
	}, []string{"op", "code"})

	MediaRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatroom_media_requests_total",
		Help: "Media server requests by HTTP status.",
	}, []string{"status"})
)

func init() {
	Registry.MustRegister(
		FeedSnapshots,
		FeedSends,
		FeedSubscriptions,
		AuthAttempts,
		MediaRequests,
		prometheus.NewGoCollector(),
	)
}

// Handler serves Registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
