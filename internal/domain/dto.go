package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse is a simple error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UserDTO is the API representation of a user. The password hash never
// leaves the persistence layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        UserRole   `json:"role"`
	Phone       string     `json:"phone,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// AcademyDTO is the API representation of an academy
type AcademyDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Responsible string    `json:"responsible,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateAcademyRequest is the payload for creating an academy
type CreateAcademyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"max=500"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=2"`
	Responsible string `json:"responsible" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=50"`
}

// UpdateAcademyRequest is the payload for updating an academy
type UpdateAcademyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"max=500"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=2"`
	Responsible string `json:"responsible" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=50"`
}

// EventDTO is the API representation of an event, including the resolved
// active academy membership from the junction table.
type EventDTO struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	City          string      `json:"city,omitempty"`
	State         string      `json:"state,omitempty"`
	Address       string      `json:"address,omitempty"`
	Status        EventStatus `json:"status"`
	SalespersonID *uuid.UUID  `json:"salespersonId,omitempty"`
	AcademiesIDs  []uuid.UUID `json:"academiesIds"`
	StartDate     time.Time   `json:"startDate"`
	EndDate       time.Time   `json:"endDate"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// CreateEventRequest is the payload for creating an event
type CreateEventRequest struct {
	Name          string      `json:"name" validate:"required,max=200"`
	City          string      `json:"city" validate:"max=100"`
	State         string      `json:"state" validate:"max=2"`
	Address       string      `json:"address" validate:"max=500"`
	Status        EventStatus `json:"status" validate:"omitempty,oneof=UPCOMING IN_PROGRESS CANCELLED COMPLETED"`
	SalespersonID *uuid.UUID  `json:"salespersonId"`
	AcademiesIDs  []uuid.UUID `json:"academiesIds"`
	StartDate     time.Time   `json:"startDate" validate:"required"`
	EndDate       time.Time   `json:"endDate" validate:"required"`
}

// UpdateEventRequest carries the complete desired state of an event,
// including the full academy membership set. The junction diff is computed
// server-side against current rows.
type UpdateEventRequest struct {
	Name          string      `json:"name" validate:"required,max=200"`
	City          string      `json:"city" validate:"max=100"`
	State         string      `json:"state" validate:"max=2"`
	Address       string      `json:"address" validate:"max=500"`
	Status        EventStatus `json:"status" validate:"omitempty,oneof=UPCOMING IN_PROGRESS CANCELLED COMPLETED"`
	SalespersonID *uuid.UUID  `json:"salespersonId"`
	AcademiesIDs  []uuid.UUID `json:"academiesIds"`
	StartDate     time.Time   `json:"startDate" validate:"required"`
	EndDate       time.Time   `json:"endDate" validate:"required"`
}

// VisitDTO is the API representation of a visit
type VisitDTO struct {
	ID                uuid.UUID      `json:"id"`
	EventID           uuid.UUID      `json:"eventId"`
	AcademyID         uuid.UUID      `json:"academyId"`
	SalespersonID     uuid.UUID      `json:"salespersonId"`
	Status            VisitStatus    `json:"status"`
	StartedAt         *time.Time     `json:"startedAt,omitempty"`
	FinishedAt        *time.Time     `json:"finishedAt,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Summary           string         `json:"summary,omitempty"`
	Temperature       *Temperature   `json:"temperature,omitempty"`
	ContactPerson     *ContactPerson `json:"contactPerson,omitempty"`
	VouchersGenerated []string       `json:"vouchersGenerated"`
	LeftBanner        bool           `json:"leftBanner"`
	LeftFlyers        bool           `json:"leftFlyers"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// StartVisitRequest opens a draft visit for an event/academy pair
type StartVisitRequest struct {
	EventID   uuid.UUID `json:"eventId" validate:"required"`
	AcademyID uuid.UUID `json:"academyId" validate:"required"`
}

// FinalizeVisitRequest completes a visit. Notes and temperature are
// mandatory before the PENDING -> VISITED transition is accepted.
type FinalizeVisitRequest struct {
	EventID       uuid.UUID      `json:"eventId" validate:"required"`
	AcademyID     uuid.UUID      `json:"academyId" validate:"required"`
	Notes         string         `json:"notes" validate:"required"`
	Summary       string         `json:"summary"`
	Temperature   Temperature    `json:"temperature" validate:"required,oneof=COLD WARM HOT"`
	ContactPerson *ContactPerson `json:"contactPerson" validate:"omitempty,oneof=OWNER TEACHER STAFF NOBODY"`
	VoucherCount  int            `json:"voucherCount" validate:"gte=0,lte=50"`
	LeftBanner    bool           `json:"leftBanner"`
	LeftFlyers    bool           `json:"leftFlyers"`
}

// VoucherDTO is the API representation of a voucher
type VoucherDTO struct {
	Code      string    `json:"code"`
	EventID   uuid.UUID `json:"eventId"`
	AcademyID uuid.UUID `json:"academyId"`
	VisitID   uuid.UUID `json:"visitId"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoucherLinkDTO is the shareable handoff payload produced after a visit
// generates vouchers.
type VoucherLinkDTO struct {
	AcademyName string    `json:"academyName"`
	Codes       []string  `json:"codes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// PublicVoucherDTO is the payload rendered on the public redemption page.
// Expiry is computed purely from the timestamp embedded in the link.
type PublicVoucherDTO struct {
	AcademyName string    `json:"academyName"`
	Codes       []string  `json:"codes"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Expired     bool      `json:"expired"`
}

// FinanceRecordDTO is the API representation of a commission record
type FinanceRecordDTO struct {
	ID            uuid.UUID     `json:"id"`
	EventID       uuid.UUID     `json:"eventId"`
	SalespersonID uuid.UUID     `json:"salespersonId"`
	Amount        float64       `json:"amount"`
	Status        FinanceStatus `json:"status"`
	Observation   string        `json:"observation,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CreateFinanceRequest is the payload for creating a commission record
type CreateFinanceRequest struct {
	EventID       uuid.UUID `json:"eventId" validate:"required"`
	SalespersonID uuid.UUID `json:"salespersonId" validate:"required"`
	Amount        float64   `json:"amount" validate:"gt=0"`
	Observation   string    `json:"observation"`
}

// UpdateFinanceRequest moves a record along the status chain and/or
// adjusts its amount
type UpdateFinanceRequest struct {
	Amount      *float64       `json:"amount" validate:"omitempty,gt=0"`
	Status      *FinanceStatus `json:"status" validate:"omitempty,oneof=PENDING PAID RECEIVED"`
	Observation *string        `json:"observation"`
}

// NotificationDTO is the API representation of a notification
type NotificationDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// UnreadCountDTO carries the unread notification counter
type UnreadCountDTO struct {
	Count int `json:"count"`
}

// LoginRequest is the credential payload for auth_login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// RequestAccessRequest asks for an activation invite (allowlist gated)
type RequestAccessRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ActivateUserRequest consumes an activation token and creates the account
type ActivateUserRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=200"`
}

// GenerateInviteRequest creates an activation token for an email (admin)
type GenerateInviteRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Role  UserRole `json:"role" validate:"required,oneof=ADMIN SALES"`
}

// RevokeInviteRequest invalidates pending activation tokens for an email
type RevokeInviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumes a reset token and sets a new password
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResultDTO mirrors the stored-procedure style {success, message} result
type AuthResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// ElevationStatusDTO reports the caller's current elevation session
type ElevationStatusDTO struct {
	SessionID            string     `json:"session_id"`
	Elevated             bool       `json:"elevated"`
	ElevatedAt           *time.Time `json:"elevated_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	Reason               string     `json:"reason,omitempty"`
	TimeRemainingSeconds int        `json:"time_remaining_seconds,omitempty"`
}

// RequestElevationRequest asks for a temporary admin session
type RequestElevationRequest struct {
	Password        string `json:"password" validate:"required"`
	Reason          string `json:"reason" validate:"max=500"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,gte=1,lte=240"`
}

// ElevationResultDTO is returned by request/revoke elevation
type ElevationResultDTO struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	SessionID string     `json:"session_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// AllowlistEntryDTO is the API representation of an allowlist entry
type AllowlistEntryDTO struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	Role      UserRole        `json:"role"`
	Status    AllowlistStatus `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// AddAllowlistRequest adds an email to the access allowlist
type AddAllowlistRequest struct {
	Email string   `json:"email" validate:"required,email"`
	Role  UserRole `json:"role" validate:"required,oneof=ADMIN SALES"`
}

// UpdateUserRequest updates mutable profile fields. Role is intentionally
/// absent: it cannot change after creation.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"max=50"`
	City  string `json:"city" validate:"max=100"`
	State string `json:"state" validate:"max=2"`
}

// SettingDTO is the API representation of a system setting
type SettingDTO struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SetSettingRequest upserts a system setting value
type SetSettingRequest struct {
	Value interface{} `json:"value"`
}

// ReportSummaryDTO aggregates dashboard counters
type ReportSummaryDTO struct {
	TotalAcademies      int64                 `json:"totalAcademies"`
	TotalEvents         int64                 `json:"totalEvents"`
	TotalVisits         int64                 `json:"totalVisits"`
	VisitedCount        int64                 `json:"visitedCount"`
	PendingCount        int64                 `json:"pendingCount"`
	TotalVouchers       int64                 `json:"totalVouchers"`
	VisitsByTemperature map[Temperature]int64 `json:"visitsByTemperature"`
	FinanceTotals       map[FinanceStatus]float64 `json:"financeTotals"`
}
