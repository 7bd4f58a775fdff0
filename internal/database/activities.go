package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"fitbot/internal/domain"
	"fitbot/internal/models"
	"gorm.io/gorm"
)

// LeaderboardLimit размер рейтинга
const LeaderboardLimit = 10

// RecordActivity добавляет запись и обновляет last_activity_at пользователя в одной транзакции.
// Для несуществующего пользователя ничего не записывается.
func (db *DB) RecordActivity(ctx context.Context, userID int64, category models.Category, value float64, at time.Time) error {
	if !category.Valid() {
		return fmt.Errorf("%w: category %q", domain.ErrInvalidInput, category)
	}
	if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: value %v", domain.ErrInvalidInput, value)
	}
	at = at.UTC()

	err := db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("user_id = ?", userID).
			Update("last_activity_at", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}

		return tx.Create(&models.Activity{
			UserID:    userID,
			Category:  category,
			Value:     value,
			CreatedAt: at,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("record activity for %d: %w", userID, err)
	}
	return nil
}

// Leaderboard топ-10 одобренных пользователей по сумме в категории начиная с since.
// since == nil означает "за все время".
func (db *DB) Leaderboard(ctx context.Context, category models.Category, since *time.Time) ([]models.LeaderboardEntry, error) {
	q := db.gorm.WithContext(ctx).
		Table("activities AS a").
		Select("u.full_name, u.city, SUM(a.value) AS total").
		Joins("JOIN users u ON u.user_id = a.user_id").
		Where("a.category = ? AND u.status = ?", category, models.StatusApproved)
	if since != nil {
		q = q.Where("a.created_at >= ?", since.UTC())
	}

	var entries []models.LeaderboardEntry
	err := q.Group("a.user_id").
		Order("total DESC").
		Order("MIN(a.id) ASC").
		Limit(LeaderboardLimit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard %s: %w", category, err)
	}
	return entries, nil
}

// PersonalTotal сумма пользователя в категории начиная с since; 0 если записей нет
func (db *DB) PersonalTotal(ctx context.Context, userID int64, category models.Category, since *time.Time) (float64, error) {
	q := db.gorm.WithContext(ctx).
		Model(&models.Activity{}).
		Select("COALESCE(SUM(value), 0)").
		Where("user_id = ? AND category = ?", userID, category)
	if since != nil {
		q = q.Where("created_at >= ?", since.UTC())
	}

	var total float64
	if err := q.Row().Scan(&total); err != nil {
		return 0, fmt.Errorf("personal total %d/%s: %w", userID, category, err)
	}
	return total, nil
}

// MemberSummaries все пользователи с суммами по категориям за все время, для выгрузок
func (db *DB) MemberSummaries(ctx context.Context) ([]models.MemberSummary, error) {
	var users []models.User
	if err := db.gorm.WithContext(ctx).Order("created_at ASC").Order("user_id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var rows []struct {
		UserID   int64
		Category models.Category
		Total    float64
	}
	err := db.gorm.WithContext(ctx).
		Model(&models.Activity{}).
		Select("user_id, category, SUM(value) AS total").
		Group("user_id, category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sum activities: %w", err)
	}

	totals := make(map[int64]map[models.Category]float64)
	for _, r := range rows {
		if totals[r.UserID] == nil {
			totals[r.UserID] = make(map[models.Category]float64)
		}
		totals[r.UserID][r.Category] = r.Total
	}

	out := make([]models.MemberSummary, 0, len(users))
	for _, u := range users {
		t := totals[u.UserID]
		if t == nil {
			t = make(map[models.Category]float64)
		}
		out = append(out, models.MemberSummary{User: u, Totals: t})
	}
	return out, nil
}
