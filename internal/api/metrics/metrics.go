// Package metrics defines the custom Prometheus metrics of the marketplace
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// The collectors are package-level so services can increment them without
// wiring; Register attaches them to a registry once at startup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "rejected"
var LoginsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts created accounts.
// Label:
//   - role: "customer" or "merchant"
var RegistrationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registered users, by role.",
	},
	[]string{"role"},
)

// ── Part metrics ──────────────────────────────────────────────────────────────

// PartMutationsTotal counts successful part writes.
// Label:
//   - op: "create", "update" or "delete"
var PartMutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "part_mutations_total",
		Help:      "Total number of part writes, by operation.",
	},
	[]string{"op"},
)

// OwnershipDenialsTotal counts part mutations refused because the caller
// does not own the part.
var OwnershipDenialsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ownership_denials_total",
		Help:      "Total number of part mutations rejected by the ownership check.",
	},
)

// ListingCacheTotal counts public listing cache lookups.
// Label:
//   - result: "hit" or "miss"
var ListingCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_total",
		Help:      "Total number of listing cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Request metrics ───────────────────────────────────────────────────────────

// RequestsCreatedTotal counts customer part requests.
var RequestsCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_created_total",
		Help:      "Total number of customer part requests created.",
	},
)

// RequestStatusChangesTotal counts applied status transitions.
// Label:
//   - status: the new status
var RequestStatusChangesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_status_changes_total",
		Help:      "Total number of request status transitions, by target status.",
	},
	[]string{"status"},
)

// Register attaches every custom collector plus the Go runtime and process
// collectors to reg.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		LoginsTotal,
		RegistrationsTotal,
		PartMutationsTotal,
		OwnershipDenialsTotal,
		ListingCacheTotal,
		RequestsCreatedTotal,
		RequestStatusChangesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
