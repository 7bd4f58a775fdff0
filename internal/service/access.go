package service

import (
	"context"
	"errors"
	"strings"

	"fitbot/internal/domain"
	"fitbot/internal/models"
)

// Access результат проверки статуса пользователя
type Access int

const (
	AccessAllowed Access = iota
	AccessNotRegistered
	AccessPendingApproval
	AccessRejected
	AccessBanned
)

func (a Access) String() string {
	switch a {
	case AccessAllowed:
		return "allowed"
	case AccessNotRegistered:
		return "not_registered"
	case AccessPendingApproval:
		return "pending"
	case AccessRejected:
		return "rejected"
	case AccessBanned:
		return "banned"
	}
	return "unknown"
}

// AccessFor переводит статус пользователя в результат проверки доступа
func AccessFor(user *models.User) Access {
	if user == nil {
		return AccessNotRegistered
	}
	switch user.Status {
	case models.StatusApproved:
		return AccessAllowed
	case models.StatusPending:
		return AccessPendingApproval
	case models.StatusRejected:
		return AccessRejected
	case models.StatusBanned:
		return AccessBanned
	}
	return AccessNotRegistered
}

// CheckAccess проверяет, может ли пользователь пользоваться сценариями для одобренных
func (e *Engine) CheckAccess(ctx context.Context, userID int64) (Access, error) {
	user, err := e.store.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return AccessNotRegistered, nil
	}
	if err != nil {
		return AccessNotRegistered, err
	}
	return AccessFor(user), nil
}

// Admins статические списки администраторов
type Admins struct {
	ids    map[int64]struct{}
	phones map[string]struct{}
	order  []int64
}

func NewAdmins(ids []int64, phones []string) Admins {
	a := Admins{ids: make(map[int64]struct{}), phones: make(map[string]struct{})}
	for _, id := range ids {
		if _, dup := a.ids[id]; !dup {
			a.order = append(a.order, id)
		}
		a.ids[id] = struct{}{}
	}
	for _, p := range phones {
		if p = strings.TrimSpace(p); p != "" {
			a.phones[p] = struct{}{}
		}
	}
	return a
}

// IDs администраторы по ID в порядке конфигурации, для уведомлений
func (a Admins) IDs() []int64 {
	return a.order
}

// IsAdmin true, если ID в списке администраторов или сохраненный телефон
// пользователя в списке телефонов администраторов
func (a Admins) IsAdmin(userID int64, phone string) bool {
	if _, ok := a.ids[userID]; ok {
		return true
	}
	if phone = strings.TrimSpace(phone); phone != "" {
		_, ok := a.phones[phone]
		return ok
	}
	return false
}

// isAdmin вычисляется заново при каждом административном действии
func (e *Engine) isAdmin(ctx context.Context, userID int64) (bool, error) {
	if e.admins.IsAdmin(userID, "") {
		return true, nil
	}
	user, err := e.store.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.admins.IsAdmin(userID, user.Phone), nil
}

var allowedTransitions = map[models.Status][]models.Status{
	models.StatusPending:  {models.StatusApproved, models.StatusRejected, models.StatusBanned},
	models.StatusApproved: {models.StatusBanned},
	models.StatusBanned:   {models.StatusApproved},
}

// CanTransition допустимые административные смены статуса
func CanTransition(from, to models.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
