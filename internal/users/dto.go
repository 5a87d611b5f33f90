package users

import (
	"strings"
	"time"

	"github.com/flo-app/flo-backend/pkg/db/models"
	"github.com/google/uuid"
)

// Preferences are the per-user notification and reporting toggles.
type Preferences struct {
	AnonymousReports bool `json:"anonymous_reports"`
	EmergencyAlerts  bool `json:"emergency_alerts"`
	ReportUpdates    bool `json:"report_updates"`
}

// UserDTO is the transport shape; it never carries the password hash.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Phone       *string     `json:"phone,omitempty"`
	City        *string     `json:"city,omitempty"`
	IsActive    bool        `json:"is_active"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateUserDTO holds what the repo needs to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Phone        *string
	City         *string
}

// PreferencesInput allows partial preference updates.
type PreferencesInput struct {
	AnonymousReports *bool `json:"anonymous_reports,omitempty"`
	EmergencyAlerts  *bool `json:"emergency_alerts,omitempty"`
	ReportUpdates    *bool `json:"report_updates,omitempty"`
}

// UpdateProfileRequest is the PUT /users/{id} body. Password is accepted and dropped.
type UpdateProfileRequest struct {
	Name        *string           `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,max=32"`
	City        *string           `json:"city,omitempty" validate:"omitempty,max=120"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
	Password    *string           `json:"password,omitempty" validate:"-"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		City:     u.City,
		IsActive: u.IsActive,
		Preferences: Preferences{
			AnonymousReports: u.PrefAnonymousReports,
			EmergencyAlerts:  u.PrefEmergencyAlerts,
			ReportUpdates:    u.PrefReportUpdates,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToModel builds an active user with every preference enabled.
func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:                   uuid.New(),
		Name:                 strings.TrimSpace(c.Name),
		Email:                NormalizeEmail(c.Email),
		PasswordHash:         c.PasswordHash,
		Phone:                trimOptional(c.Phone),
		City:                 trimOptional(c.City),
		IsActive:             true,
		PrefAnonymousReports: true,
		PrefEmergencyAlerts:  true,
		PrefReportUpdates:    true,
	}
}

// Columns converts the request into a column map, skipping absent fields and the password.
func (r UpdateProfileRequest) Columns() map[string]any {
	cols := map[string]any{}
	if r.Name != nil {
		cols["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		cols["phone"] = trimOptional(r.Phone)
	}
	if r.City != nil {
		cols["city"] = trimOptional(r.City)
	}
	if p := r.Preferences; p != nil {
		if p.AnonymousReports != nil {
			cols["pref_anonymous_reports"] = *p.AnonymousReports
		}
		if p.EmergencyAlerts != nil {
			cols["pref_emergency_alerts"] = *p.EmergencyAlerts
		}
		if p.ReportUpdates != nil {
			cols["pref_report_updates"] = *p.ReportUpdates
		}
	}
	return cols
}

// NormalizeEmail lower-cases and trims an address before any lookup or write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// trimOptional returns nil for blank values so empty strings clear the column.
func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
