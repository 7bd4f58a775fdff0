package service

import (
	"testing"

	"fitbot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAccessFor(t *testing.T) {
	tests := []struct {
		user *models.User
		want Access
	}{
		{nil, AccessNotRegistered},
		{&models.User{Status: models.StatusPending}, AccessPendingApproval},
		{&models.User{Status: models.StatusApproved}, AccessAllowed},
		{&models.User{Status: models.StatusRejected}, AccessRejected},
		{&models.User{Status: models.StatusBanned}, AccessBanned},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AccessFor(tt.user))
	}
}

func TestAdmins(t *testing.T) {
	admins := NewAdmins([]int64{10, 20, 10}, []string{" +7999 ", ""})

	assert.Equal(t, []int64{10, 20}, admins.IDs())
	assert.True(t, admins.IsAdmin(10, ""))
	assert.True(t, admins.IsAdmin(5, "+7999"))
	assert.False(t, admins.IsAdmin(5, ""))
	assert.False(t, admins.IsAdmin(5, "+7000"))
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]models.Status]bool{
		{models.StatusPending, models.StatusApproved}:  true,
		{models.StatusPending, models.StatusRejected}:  true,
		{models.StatusPending, models.StatusBanned}:    true,
		{models.StatusApproved, models.StatusBanned}:   true,
		{models.StatusBanned, models.StatusApproved}:   true,
		{models.StatusApproved, models.StatusRejected}: false,
		{models.StatusApproved, models.StatusApproved}: false,
		{models.StatusRejected, models.StatusApproved}: false,
		{models.StatusRejected, models.StatusBanned}:   false,
		{models.StatusBanned, models.StatusRejected}:   false,
	}
	for pair, want := range allowed {
		assert.Equal(t, want, CanTransition(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}
