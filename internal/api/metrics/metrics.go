// Package metrics defines and registers the custom Prometheus metrics of the
// Guia TNN portal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; echoprometheus exposes them on /metrics alongside the HTTP ones.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guiatnn"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited", "bad_request" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts request gate outcomes for protected routes.
// Labels:
//   - route: "admin_ui" or "protected_api"
//   - outcome: "pass", "redirect" or "unauthorized"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of request gate decisions on protected routes.",
	},
	[]string{"route", "outcome"},
)

// LogoutsTotal counts logouts, including those without a live session.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ContentWritesTotal counts successful content mutations.
// Labels:
//   - resource: "eventos", "comercios", "galeria" or "anuncios"
//   - action: "create", "update" or "delete"
var ContentWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_writes_total",
		Help:      "Total number of content records written, by resource and action.",
	},
	[]string{"resource", "action"},
)

// UploadsPresignedTotal counts presigned image upload slots handed out.
var UploadsPresignedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_presigned_total",
		Help:      "Total number of presigned image uploads issued, by resource.",
	},
	[]string{"resource"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEntriesTotal counts audit entries by fate.
// Label:
//   - result: "written", "failed" or "dropped"
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of entries waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
