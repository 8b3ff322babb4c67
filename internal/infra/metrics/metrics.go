package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"upstream", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream API request duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"upstream"},
	)

	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of handled chat commands",
		},
		[]string{"command"},
	)

	walletReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_wallet_reports_total",
			Help: "Wallet analyses by outcome",
		},
		[]string{"outcome"},
	)

	sendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_send_failures_total",
			Help: "Messages that could not be delivered to the chat",
		},
	)
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(upstream string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

func IncCommand(command string) {
	commandsTotal.WithLabelValues(command).Inc()
}

// IncWalletReport counts analyses: "report", "no_activity" or "invalid".
func IncWalletReport(outcome string) {
	walletReportsTotal.WithLabelValues(outcome).Inc()
}

func IncSendFailure() {
	sendFailuresTotal.Inc()
}
