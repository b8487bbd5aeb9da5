package domain_test

import (
	"testing"
	"time"

	"github.com/mudita/visita-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFinanceStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    domain.FinanceStatus
		to      domain.FinanceStatus
		allowed bool
	}{
		{domain.FinanceStatusPending, domain.FinanceStatusPending, true},
		{domain.FinanceStatusPending, domain.FinanceStatusPaid, true},
		{domain.FinanceStatusPending, domain.FinanceStatusReceived, false},
		{domain.FinanceStatusPaid, domain.FinanceStatusPaid, true},
		{domain.FinanceStatusPaid, domain.FinanceStatusReceived, true},
		{domain.FinanceStatusPaid, domain.FinanceStatusPending, false},
		{domain.FinanceStatusReceived, domain.FinanceStatusReceived, true},
		{domain.FinanceStatusReceived, domain.FinanceStatusPaid, false},
		{domain.FinanceStatusReceived, domain.FinanceStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, domain.RoleAdmin.IsValid())
	assert.True(t, domain.RoleSales.IsValid())
	assert.False(t, domain.UserRole("MANAGER").IsValid())

	assert.True(t, domain.TemperatureHot.IsValid())
	assert.False(t, domain.Temperature("").IsValid())
	assert.False(t, domain.Temperature("LUKEWARM").IsValid())

	assert.True(t, domain.EventStatusUpcoming.IsValid())
	assert.True(t, domain.EventStatusCompleted.IsValid())
	assert.False(t, domain.EventStatus("POSTPONED").IsValid())
}

func TestAdminSession_Active(t *testing.T) {
	now := time.Now().UTC()
	revoked := now.Add(-time.Minute)

	live := &domain.AdminSession{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, live.Active(now))

	expired := &domain.AdminSession{ExpiresAt: now.Add(-time.Second)}
	assert.False(t, expired.Active(now))

	closed := &domain.AdminSession{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}
	assert.False(t, closed.Active(now))
}
