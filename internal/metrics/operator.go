package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReconcileFailuresTotal counts reconcile errors by kind.
	ReconcileFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ogmios_operator_reconcile_failures_total",
		Help: "Total number of failed OgmiosPort reconciliations",
	}, []string{"instance", "error_kind"})

	// DCUTotal is the billing counter: Demeter Compute Units consumed.
	DCUTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ogmios_operator_dcu_total",
		Help: "Total Demeter Compute Units billed",
	}, []string{"project", "service", "service_type", "tenancy"})

	// BillingFailuresTotal counts per-iteration billing-collector errors.
	BillingFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ogmios_operator_billing_failures_total",
		Help: "Total number of billing collector iteration failures",
	}, []string{"reason"})
)
