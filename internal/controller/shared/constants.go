package shared

import "time"

const (
	// ReconcileRequeueInterval is the fixed backoff applied after a failed
	// reconcile of an OgmiosPort, per the controller's error policy.
	ReconcileRequeueInterval = 5 * time.Second

	// RetryBackoffBaseDelay is a base delay for retry backoff. No reconcile
	// path references it: a failed step is retried only by the fixed requeue.
	RetryBackoffBaseDelay = 100 * time.Millisecond

	// RetryMaxAttempts is a retry-attempt bound. No reconcile path references
	// it: the status updater issues a single update per reconcile.
	RetryMaxAttempts = 3

	// DefaultMetricsDelay is the fallback billing-collector tick period.
	DefaultMetricsDelay = 60 * time.Second

	// DefaultTiersPollInterval is the fallback tier-file poll interval.
	DefaultTiersPollInterval = 2 * time.Second
)
