package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Business Metrics
var (
	CasesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCasesOpened,
			Help: HelpTextCasesOpened,
		},
		[]string{LabelCase},
	)

	PrizesWon = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePrizesWon,
			Help: HelpTextPrizesWon,
		},
		[]string{LabelCase, LabelPrize},
	)

	Upgrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpgrades,
			Help: HelpTextUpgrades,
		},
		[]string{LabelOutcome},
	)

	Withdrawals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWithdrawals,
			Help: HelpTextWithdrawals,
		},
		[]string{LabelOutcome},
	)

	PromoRedemptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePromoRedemptions,
			Help: HelpTextPromoRedemptions,
		},
	)

	TONCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTONCredited,
			Help: HelpTextTONCredited,
		},
		[]string{LabelSource},
	)

	TONDebited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTONDebited,
			Help: HelpTextTONDebited,
		},
		[]string{LabelReason},
	)

	ReferralsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReferralsRegistered,
			Help: HelpTextReferralsRegistered,
		},
	)
)
