package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics counts report lifecycle events.
type ReportMetrics struct {
	created       *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
	protocolRetry prometheus.Counter
}

func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	if reg == nil {
		return &ReportMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_created_total",
		Help: "Reports created by type and anonymity.",
	}, []string{"type", "anonymous"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_status_updates_total",
		Help: "Report status updates by target status.",
	}, []string{"status"})
	protocolRetry := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_protocol_collisions_total",
		Help: "Protocol number collisions that forced a regeneration.",
	})
	reg.MustRegister(created, statusChanges, protocolRetry)
	return &ReportMetrics{
		created:       created,
		statusChanges: statusChanges,
		protocolRetry: protocolRetry,
	}
}

func (m *ReportMetrics) IncCreated(reportType string, anonymous bool) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(reportType), strconv.FormatBool(anonymous)).Inc()
}

func (m *ReportMetrics) IncStatusUpdate(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *ReportMetrics) IncProtocolCollision() {
	if m == nil || m.protocolRetry == nil {
		return
	}
	m.protocolRetry.Inc()
}
