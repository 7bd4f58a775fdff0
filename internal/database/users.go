package database

import (
	"context"
	"fmt"
	"strings"

	"fitbot/internal/domain"
	"fitbot/internal/models"
	"gorm.io/gorm/clause"
)

// UpsertUser создает пользователя со статусом pending, а при повторной регистрации
// перезаписывает анкету и возвращает статус в pending. created_at не меняется.
func (db *DB) UpsertUser(ctx context.Context, userID int64, fullName, phone, city string, age int) error {
	user := models.User{
		UserID:    userID,
		FullName:  fullName,
		Phone:     phone,
		City:      city,
		Age:       age,
		Status:    models.StatusPending,
		CreatedAt: db.now(),
	}

	err := db.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "city", "age", "status"}),
		}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", userID, err)
	}
	return nil
}

// GetUser возвращает пользователя или domain.ErrUserNotFound
func (db *DB) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := db.gorm.WithContext(ctx).Where("user_id = ?", userID).Take(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// SetStatus безусловно меняет статус. Допустимость перехода проверяет вызывающий код.
func (db *DB) SetStatus(ctx context.Context, userID int64, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	res := db.gorm.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set status %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByStatus пользователи с одним из статусов, сначала новые
func (db *DB) ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.User, error) {
	var users []models.User
	err := db.gorm.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Order("user_id DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users by status %s: %w", joinStatuses(statuses), err)
	}
	return users, nil
}

// ListPending очередь модерации, сначала самые старые заявки
func (db *DB) ListPending(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := db.gorm.WithContext(ctx).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	return users, nil
}

// UserIDsByStatus только идентификаторы, для рассылок
func (db *DB) UserIDsByStatus(ctx context.Context, statuses ...models.Status) ([]int64, error) {
	var ids []int64
	err := db.gorm.WithContext(ctx).
		Model(&models.User{}).
		Where("status IN ?", statuses).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list user ids by status %s: %w", joinStatuses(statuses), err)
	}
	return ids, nil
}

// CountByStatus количество пользователей по каждому статусу
func (db *DB) CountByStatus(ctx context.Context) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}
	err := db.gorm.WithContext(ctx).
		Model(&models.User{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func joinStatuses(statuses []models.Status) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
