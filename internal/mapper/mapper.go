package mapper

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/mudita/visita-api/internal/domain"
)

// ToUserDTO converts a user model to its API representation
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Phone:       user.Phone,
		City:        user.City,
		State:       user.State,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of user models
func ToUserDTOs(users []domain.User) []domain.UserDTO {
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}
	return dtos
}

// ToAcademyDTO converts an academy model to its API representation
func ToAcademyDTO(academy *domain.Academy) domain.AcademyDTO {
	return domain.AcademyDTO{
		ID:          academy.ID,
		Name:        academy.Name,
		Address:     academy.Address,
		City:        academy.City,
		State:       academy.State,
		Responsible: academy.Responsible,
		Phone:       academy.Phone,
		CreatedAt:   academy.CreatedAt,
	}
}

// ToAcademyDTOs converts a slice of academy models
func ToAcademyDTOs(academies []domain.Academy) []domain.AcademyDTO {
	dtos := make([]domain.AcademyDTO, len(academies))
	for i := range academies {
		dtos[i] = ToAcademyDTO(&academies[i])
	}
	return dtos
}

// ToEventDTO converts an event model plus its resolved academy membership
func ToEventDTO(event *domain.Event, academyIDs []uuid.UUID) domain.EventDTO {
	if academyIDs == nil {
		academyIDs = []uuid.UUID{}
	}
	return domain.EventDTO{
		ID:            event.ID,
		Name:          event.Name,
		City:          event.City,
		State:         event.State,
		Address:       event.Address,
		Status:        event.Status,
		SalespersonID: event.SalespersonID,
		AcademiesIDs:  academyIDs,
		StartDate:     event.StartDate,
		EndDate:       event.EndDate,
		CreatedAt:     event.CreatedAt,
	}
}

// ToVisitDTO converts a visit model to its API representation
func ToVisitDTO(visit *domain.Visit) domain.VisitDTO {
	codes := visit.VouchersGenerated
	if codes == nil {
		codes = []string{}
	}
	return domain.VisitDTO{
		ID:                visit.ID,
		EventID:           visit.EventID,
		AcademyID:         visit.AcademyID,
		SalespersonID:     visit.SalespersonID,
		Status:            visit.Status,
		StartedAt:         visit.StartedAt,
		FinishedAt:        visit.FinishedAt,
		Notes:             visit.Notes,
		Summary:           visit.Summary,
		Temperature:       visit.Temperature,
		ContactPerson:     visit.ContactPerson,
		VouchersGenerated: codes,
		LeftBanner:        visit.LeftBanner,
		LeftFlyers:        visit.LeftFlyers,
		UpdatedAt:         visit.UpdatedAt,
	}
}

// ToVisitDTOs converts a slice of visit models
func ToVisitDTOs(visits []domain.Visit) []domain.VisitDTO {
	dtos := make([]domain.VisitDTO, len(visits))
	for i := range visits {
		dtos[i] = ToVisitDTO(&visits[i])
	}
	return dtos
}

// ToVoucherDTO converts a voucher model to its API representation
func ToVoucherDTO(voucher *domain.Voucher) domain.VoucherDTO {
	return domain.VoucherDTO{
		Code:      voucher.Code,
		EventID:   voucher.EventID,
		AcademyID: voucher.AcademyID,
		VisitID:   voucher.VisitID,
		CreatedAt: voucher.CreatedAt,
	}
}

// ToVoucherDTOs converts a slice of voucher models
func ToVoucherDTOs(vouchers []domain.Voucher) []domain.VoucherDTO {
	dtos := make([]domain.VoucherDTO, len(vouchers))
	for i := range vouchers {
		dtos[i] = ToVoucherDTO(&vouchers[i])
	}
	return dtos
}

// ToFinanceDTO converts a finance record model to its API representation
func ToFinanceDTO(record *domain.FinanceRecord) domain.FinanceRecordDTO {
	return domain.FinanceRecordDTO{
		ID:            record.ID,
		EventID:       record.EventID,
		SalespersonID: record.SalespersonID,
		Amount:        record.Amount,
		Status:        record.Status,
		Observation:   record.Observation,
		UpdatedAt:     record.UpdatedAt,
		CreatedAt:     record.CreatedAt,
	}
}

// ToFinanceDTOs converts a slice of finance record models
func ToFinanceDTOs(records []domain.FinanceRecord) []domain.FinanceRecordDTO {
	dtos := make([]domain.FinanceRecordDTO, len(records))
	for i := range records {
		dtos[i] = ToFinanceDTO(&records[i])
	}
	return dtos
}

// ToNotificationDTO converts a notification model to its API representation
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	return domain.NotificationDTO{
		ID:        notification.ID,
		UserID:    notification.UserID,
		Message:   notification.Message,
		Read:      notification.Read,
		Timestamp: notification.CreatedAt,
	}
}

// ToNotificationDTOs converts a slice of notification models
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		dtos[i] = ToNotificationDTO(&notifications[i])
	}
	return dtos
}

// ToAllowlistDTO converts an allowlist entry model to its API representation
func ToAllowlistDTO(entry *domain.AllowlistEntry) domain.AllowlistEntryDTO {
	return domain.AllowlistEntryDTO{
		ID:        entry.ID,
		Email:     entry.Email,
		Role:      entry.Role,
		Status:    entry.Status,
		CreatedAt: entry.CreatedAt,
	}
}

// ToAllowlistDTOs converts a slice of allowlist entry models
func ToAllowlistDTOs(entries []domain.AllowlistEntry) []domain.AllowlistEntryDTO {
	dtos := make([]domain.AllowlistEntryDTO, len(entries))
	for i := range entries {
		dtos[i] = ToAllowlistDTO(&entries[i])
	}
	return dtos
}

// ToSettingDTO converts a setting row, decoding the stored JSON value.
// A value that fails to decode is passed through as its raw string.
func ToSettingDTO(setting *domain.SystemSetting) domain.SettingDTO {
	var value interface{}
	if err := json.Unmarshal([]byte(setting.Value), &value); err != nil {
		value = setting.Value
	}
	return domain.SettingDTO{
		Key:       setting.Key,
		Value:     value,
		UpdatedAt: setting.UpdatedAt,
	}
}

// ToSettingDTOs converts a slice of setting rows
func ToSettingDTOs(settings []domain.SystemSetting) []domain.SettingDTO {
	dtos := make([]domain.SettingDTO, len(settings))
	for i := range settings {
		dtos[i] = ToSettingDTO(&settings[i])
	}
	return dtos
}
