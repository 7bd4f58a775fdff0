package models

import "time"

// Status статус заявки пользователя
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusBanned   Status = "banned"
)

// Valid сообщает, что статус входит в фиксированный набор
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusBanned:
		return true
	}
	return false
}

// User зарегистрированный участник. Строка появляется после первой отправки анкеты
// и никогда не удаляется.
type User struct {
	UserID         int64      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	FullName       string     `gorm:"column:full_name;not null" json:"full_name"`
	Phone          string     `gorm:"column:phone;not null" json:"phone"`
	City           string     `gorm:"column:city;not null" json:"city"`
	Age            int        `gorm:"column:age;not null" json:"age"`
	Status         Status     `gorm:"column:status;type:text;not null;default:pending" json:"status"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null" json:"created_at"`
	LastActivityAt *time.Time `gorm:"column:last_activity_at" json:"last_activity_at,omitempty"`
}

func (User) TableName() string { return "users" }

// DaysSince количество полных суток с момента регистрации
func (u User) DaysSince(now time.Time) int {
	d := now.Sub(u.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}

// MemberSummary профиль с суммами по всем категориям за все время
type MemberSummary struct {
	User   User
	Totals map[Category]float64
}
