package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Deposit metrics
	DepositsCreated      prometheus.Counter
	DepositsVerified     prometheus.Counter
	DepositsDeleted      prometheus.Counter
	DepositStatusChanges *prometheus.CounterVec
	DepositAmount        prometheus.Histogram
	DepositErrors        *prometheus.CounterVec

	// Wallet metrics
	WalletCredits      prometheus.Counter
	WalletCreditAmount prometheus.Counter

	// Capital metrics
	CapitalsCreated      *prometheus.CounterVec
	CapitalsSkipped      prometheus.Counter
	CapitalStatusChanges *prometheus.CounterVec
	CapitalsDeleted      prometheus.Counter
	CapitalGeneration    prometheus.Histogram

	// Member metrics
	MembersRegistered prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Proof upload metrics
	ProofUploads *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all Prometheus metrics and registers them on reg
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Deposit metrics
		DepositsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_deposits_created_total",
			Help: "Total number of deposits submitted",
		}),
		DepositsVerified: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_deposits_verified_total",
			Help: "Total number of deposits verified and credited",
		}),
		DepositsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_deposits_deleted_total",
			Help: "Total number of deposits deleted",
		}),
		DepositStatusChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_deposit_status_changes_total",
				Help: "Deposit status transitions by target status",
			},
			[]string{"to"},
		),
		DepositAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coopledger_deposit_amount",
			Help:    "Submitted deposit amounts",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000, 10000000},
		}),
		DepositErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_deposit_errors_total",
				Help: "Deposit operation failures by error kind",
			},
			[]string{"operation", "kind"},
		),

		// Wallet metrics
		WalletCredits: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_wallet_credits_total",
			Help: "Total number of wallet credits applied",
		}),
		WalletCreditAmount: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_wallet_credit_amount_total",
			Help: "Sum of all wallet credits applied",
		}),

		// Capital metrics
		CapitalsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_capitals_created_total",
				Help: "Capital obligations created by source",
			},
			[]string{"source"},
		),
		CapitalsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_capitals_skipped_total",
			Help: "Members skipped by bulk generation because a record already existed",
		}),
		CapitalStatusChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_capital_status_changes_total",
				Help: "Capital status transitions by target status",
			},
			[]string{"to"},
		),
		CapitalsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_capitals_deleted_total",
			Help: "Total number of capital obligations deleted",
		}),
		CapitalGeneration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coopledger_capital_generation_duration_seconds",
			Help:    "Duration of bulk capital generation runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Member metrics
		MembersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_members_registered_total",
			Help: "Total number of members registered",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "coopledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_db_retries_total",
				Help: "Transactions retried after a transient database error",
			},
			[]string{"code"},
		),

		// Outbox metrics
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "coopledger_outbox_errors_total",
			Help: "Total outbox publish failures",
		}),

		// Authentication metrics
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Proof upload metrics
		ProofUploads: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coopledger_proof_uploads_total",
				Help: "Proof of payment uploads by result",
			},
			[]string{"result"},
		),
	}
}
