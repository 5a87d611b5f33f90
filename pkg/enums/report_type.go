package enums

import "fmt"

// ReportType mirrors the report_type Postgres enum.
type ReportType string

const (
	ReportTypePhysical      ReportType = "Violência Física"
	ReportTypePsychological ReportType = "Violência Psicológica"
	ReportTypeSexual        ReportType = "Violência Sexual"
	ReportTypePatrimonial   ReportType = "Violência Patrimonial"
	ReportTypeMoral         ReportType = "Violência Moral"
	ReportTypeStalking      ReportType = "Perseguição/Stalking"
	ReportTypeOther         ReportType = "Outro"
)

var validReportTypes = []ReportType{
	ReportTypePhysical,
	ReportTypePsychological,
	ReportTypeSexual,
	ReportTypePatrimonial,
	ReportTypeMoral,
	ReportTypeStalking,
	ReportTypeOther,
}

// String implements fmt.Stringer.
func (t ReportType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ReportType.
func (t ReportType) IsValid() bool {
	for _, candidate := range validReportTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseReportType converts raw input into a ReportType.
func ParseReportType(value string) (ReportType, error) {
	if t := ReportType(value); t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid report type %q", value)
}

// ReportTypes lists every accepted type in display order.
func ReportTypes() []ReportType {
	out := make([]ReportType, len(validReportTypes))
	copy(out, validReportTypes)
	return out
}
