package enums

import "fmt"

// ReportStatus mirrors the report_status Postgres enum.
type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "Pendente"
	ReportStatusUnderReview ReportStatus = "Em Análise"
	ReportStatusForwarded   ReportStatus = "Encaminhado"
	ReportStatusCompleted   ReportStatus = "Concluído"
)

var validReportStatuses = []ReportStatus{
	ReportStatusPending,
	ReportStatusUnderReview,
	ReportStatusForwarded,
	ReportStatusCompleted,
}

// String implements fmt.Stringer.
func (s ReportStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ReportStatus.
func (s ReportStatus) IsValid() bool {
	for _, candidate := range validReportStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseReportStatus converts raw input into a ReportStatus.
func ParseReportStatus(value string) (ReportStatus, error) {
	if s := ReportStatus(value); s.IsValid() {
		return s, nil
	}
	return "", fmt.Errorf("invalid report status %q", value)
}

// ReportStatuses lists every status in workflow order.
func ReportStatuses() []ReportStatus {
	out := make([]ReportStatus, len(validReportStatuses))
	copy(out, validReportStatuses)
	return out
}
