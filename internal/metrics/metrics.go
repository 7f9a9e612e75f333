package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LeadsCreated counts leads persisted through intake and import
	LeadsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadsecure_leads_created_total",
		Help: "Number of leads created",
	})

	// LeadsApproved counts PENDING to APPROVED transitions
	LeadsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadsecure_leads_approved_total",
		Help: "Number of leads transitioned to APPROVED",
	})

	// RecoveryRequests counts issued passcode recovery tokens
	RecoveryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadsecure_recovery_requests_total",
		Help: "Number of passcode recovery tokens issued",
	})
)
