package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameCasesOpened       = "cases_opened_total"
	MetricNamePrizesWon         = "prizes_won_total"
	MetricNameUpgrades          = "upgrades_total"
	MetricNameWithdrawals       = "withdrawals_total"
	MetricNamePromoRedemptions  = "promo_redemptions_total"
	MetricNameTONCredited       = "ton_credited_total"
	MetricNameTONDebited        = "ton_debited_total"
	MetricNameReferralsRegistered = "referrals_registered_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextCasesOpened          = "Total number of cases opened"
	HelpTextPrizesWon            = "Total number of prizes won from cases"
	HelpTextUpgrades             = "Total number of upgrade attempts by outcome"
	HelpTextWithdrawals          = "Total number of gift withdrawals by outcome"
	HelpTextPromoRedemptions     = "Total number of promo code redemptions"
	HelpTextTONCredited          = "Total TON credited to balances by source"
	HelpTextTONDebited           = "Total TON debited from balances by reason"
	HelpTextReferralsRegistered  = "Total number of referrals registered"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelCase    = "case_id"
	LabelPrize   = "prize"
	LabelOutcome = "outcome"
	LabelSource  = "source"
	LabelReason  = "reason"
)

// Label values for outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Label values for balance movement sources/reasons
const (
	SourceTopUp       = "topup"
	SourceConversion  = "conversion"
	SourceSellAll     = "sell_all"
	SourcePromo       = "promo"
	SourceReferral    = "referral_earnings"
	ReasonCaseOpening = "case_opening"
)

// HTTPLatencyBuckets covers fast local handlers through the 30s
// fulfillment-bound withdrawal path.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
