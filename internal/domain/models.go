package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when the caller did not provide one.
func (m *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRole represents the access level of a user
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleSales UserRole = "SALES"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleSales
}

// User represents an application user. Role is immutable after creation.
type User struct {
	BaseModel
	Name         string     `gorm:"type:varchar(200);not null"`
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole   `gorm:"type:varchar(20);not null;index"`
	Phone        string     `gorm:"type:varchar(50)"`
	City         string     `gorm:"type:varchar(100)"`
	State        string     `gorm:"type:varchar(2)"`
	// No column default: a default would make gorm skip the field on
	// create whenever it is false, silently storing an active account.
	IsActive    bool       `gorm:"not null;column:is_active"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}

// TableName keeps the table name used by the hosted schema
func (User) TableName() string {
	return "app_users"
}

// Academy represents a martial-arts academy in the registry
type Academy struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null;index"`
	Address     string `gorm:"type:varchar(500)"`
	City        string `gorm:"type:varchar(100);index"`
	State       string `gorm:"type:varchar(2);index"`
	Responsible string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
}

// EventStatus represents the scheduling status of an event
type EventStatus string

const (
	EventStatusUpcoming   EventStatus = "UPCOMING"
	EventStatusInProgress EventStatus = "IN_PROGRESS"
	EventStatusCancelled  EventStatus = "CANCELLED"
	EventStatusCompleted  EventStatus = "COMPLETED"
)

// IsValid checks if the EventStatus is a valid enum value
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusInProgress, EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

// Event represents a sporting event that academies are visited ahead of.
// Academy membership lives in the event_academies junction table; the
// salesperson assignment is optional.
type Event struct {
	BaseModel
	Name          string      `gorm:"type:varchar(200);not null;index"`
	City          string      `gorm:"type:varchar(100)"`
	State         string      `gorm:"type:varchar(2)"`
	Address       string      `gorm:"type:varchar(500)"`
	Status        EventStatus `gorm:"type:varchar(20);not null;default:'UPCOMING';index"`
	SalespersonID *uuid.UUID  `gorm:"type:uuid;index;column:salesperson_id"`
	Salesperson   *User       `gorm:"foreignKey:SalespersonID"`
	StartDate     time.Time   `gorm:"type:date;not null;column:start_date"`
	EndDate       time.Time   `gorm:"type:date;not null;column:end_date"`
}

// EventAcademy is the event/academy junction row. Rows are never hard-deleted
// on membership changes; unlinking flips is_active so visit history survives.
type EventAcademy struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_academy;column:event_id"`
	AcademyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_event_academy;column:academy_id"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ea *EventAcademy) BeforeCreate(_ *gorm.DB) error {
	if ea.ID == uuid.Nil {
		ea.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name to match the migration
func (EventAcademy) TableName() string {
	return "event_academies"
}

// VisitStatus represents the lifecycle state of a visit
type VisitStatus string

const (
	VisitStatusPending VisitStatus = "PENDING"
	VisitStatusVisited VisitStatus = "VISITED"
)

// Temperature represents how receptive an academy was during a visit
type Temperature string

const (
	TemperatureCold Temperature = "COLD"
	TemperatureWarm Temperature = "WARM"
	TemperatureHot  Temperature = "HOT"
)

// IsValid checks if the Temperature is a valid enum value
func (t Temperature) IsValid() bool {
	return t == TemperatureCold || t == TemperatureWarm || t == TemperatureHot
}

// ContactPerson represents who received the salesperson at the academy
type ContactPerson string

const (
	ContactOwner   ContactPerson = "OWNER"
	ContactTeacher ContactPerson = "TEACHER"
	ContactStaff   ContactPerson = "STAFF"
	ContactNobody  ContactPerson = "NOBODY"
)

// Visit represents one salesperson visit to one academy for one event.
// Exactly one visit may exist per (event, academy) pair; the unique index
// is the anchor for the duplicate-recovery upsert.
type Visit struct {
	BaseModel
	EventID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_visit_event_academy;column:event_id"`
	Event             *Event         `gorm:"foreignKey:EventID"`
	AcademyID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_visit_event_academy;column:academy_id"`
	Academy           *Academy       `gorm:"foreignKey:AcademyID"`
	SalespersonID     uuid.UUID      `gorm:"type:uuid;not null;index;column:salesperson_id"`
	Status            VisitStatus    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	StartedAt         *time.Time     `gorm:"column:started_at"`
	FinishedAt        *time.Time     `gorm:"column:finished_at"`
	Notes             string         `gorm:"type:text"`
	Summary           string         `gorm:"type:text"`
	Temperature       *Temperature   `gorm:"type:varchar(20)"`
	ContactPerson     *ContactPerson `gorm:"type:varchar(20);column:contact_person"`
	VouchersGenerated []string       `gorm:"serializer:json;column:vouchers_generated"`
	LeftBanner        bool           `gorm:"not null;default:false;column:left_banner"`
	LeftFlyers        bool           `gorm:"not null;default:false;column:left_flyers"`
}

// Voucher represents a redemption code issued when a visit is finalized.
// The code itself is the primary key and is globally unique.
type Voucher struct {
	Code      string    `gorm:"type:varchar(6);primaryKey"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index;column:event_id"`
	AcademyID uuid.UUID `gorm:"type:uuid;not null;index;column:academy_id"`
	VisitID   uuid.UUID `gorm:"type:uuid;not null;index;column:visit_id"`
	Visit     *Visit    `gorm:"foreignKey:VisitID"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// FinanceStatus represents the commission payment state
type FinanceStatus string

const (
	FinanceStatusPending  FinanceStatus = "PENDING"
	FinanceStatusPaid     FinanceStatus = "PAID"
	FinanceStatusReceived FinanceStatus = "RECEIVED"
)

// CanTransitionTo reports whether the status change follows the one-way
// PENDING -> PAID -> RECEIVED chain. Staying put is allowed.
func (s FinanceStatus) CanTransitionTo(next FinanceStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case FinanceStatusPending:
		return next == FinanceStatusPaid
	case FinanceStatusPaid:
		return next == FinanceStatusReceived
	}
	return false
}

// FinanceRecord represents a commission owed to a salesperson for an event
type FinanceRecord struct {
	BaseModel
	EventID       uuid.UUID     `gorm:"type:uuid;not null;index;column:event_id"`
	Event         *Event        `gorm:"foreignKey:EventID"`
	SalespersonID uuid.UUID     `gorm:"type:uuid;not null;index;column:salesperson_id"`
	Amount        float64       `gorm:"type:decimal(15,2);not null"`
	Status        FinanceStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Observation   string        `gorm:"type:text"`
}

// Notification represents an in-app notice for a user. Read is monotonic.
type Notification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;column:user_id"`
	Message string    `gorm:"type:varchar(500);not null"`
	Read    bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt  *time.Time
}

// SystemSetting is a key/value row holding a JSON-encoded value
type SystemSetting struct {
	Key       string    `gorm:"type:varchar(100);primaryKey"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TokenType represents the purpose of an auth token
type TokenType string

const (
	TokenTypeActivation TokenType = "ACTIVATION"
	TokenTypeReset      TokenType = "RESET"
)

// AuthToken represents a single-use invitation or password-reset token.
// Only the bcrypt hash of the token value is stored.
type AuthToken struct {
	BaseModel
	Email     string    `gorm:"type:varchar(255);not null;index"`
	TokenHash string    `gorm:"type:varchar(255);not null;column:token_hash"`
	Type      TokenType `gorm:"type:varchar(20);not null;index"`
	Role      UserRole  `gorm:"type:varchar(20)"`
	Used      bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null;column:expires_at"`
}

// AllowlistStatus represents whether an allowlist entry may request access
type AllowlistStatus string

const (
	AllowlistActive   AllowlistStatus = "ACTIVE"
	AllowlistInactive AllowlistStatus = "INACTIVE"
)

// AllowlistEntry represents an email that is allowed to self-request access
type AllowlistEntry struct {
	BaseModel
	Email  string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Role   UserRole        `gorm:"type:varchar(20);not null"`
	Status AllowlistStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName keeps the table name used by the hosted schema
func (AllowlistEntry) TableName() string {
	return "app_allowlist"
}

// AdminSession represents a temporary privilege-elevation window for an admin
type AdminSession struct {
	BaseModel
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id"`
	Reason     string     `gorm:"type:varchar(500)"`
	IPAddress  string     `gorm:"type:varchar(45);column:ip_address"`
	UserAgent  string     `gorm:"type:text;column:user_agent"`
	ElevatedAt time.Time  `gorm:"not null;column:elevated_at"`
	ExpiresAt  time.Time  `gorm:"not null;column:expires_at"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
}

// Active reports whether the session is still usable at the given instant
func (s *AdminSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// AuditLog represents an admin action trail entry. Writes are best-effort
// and never block the action being audited.
type AuditLog struct {
	BaseModel
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id"`
	Action       string     `gorm:"type:varchar(100);not null"`
	ResourceType string     `gorm:"type:varchar(50);column:resource_type"`
	ResourceID   *uuid.UUID `gorm:"type:uuid;column:resource_id"`
	Details      string     `gorm:"type:text"`
	IPAddress    string     `gorm:"type:varchar(45);column:ip_address"`
	UserAgent    string     `gorm:"type:text;column:user_agent"`
}

// AuthLogOutcome represents the result of an authentication attempt
type AuthLogOutcome string

const (
	AuthLogSuccess AuthLogOutcome = "SUCCESS"
	AuthLogFailure AuthLogOutcome = "FAILURE"
)

// AuthLog records login and token activity
type AuthLog struct {
	BaseModel
	Email   string         `gorm:"type:varchar(255);index"`
	Action  string         `gorm:"type:varchar(50);not null"`
	Outcome AuthLogOutcome `gorm:"type:varchar(20);not null"`
	Detail  string         `gorm:"type:varchar(500)"`
}
