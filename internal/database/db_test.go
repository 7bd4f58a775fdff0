package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fitbot/internal/domain"
	"fitbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "data", "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func countRows(t *testing.T, db *DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.gorm.Table(table).Count(&n).Error)
	return n
}

func TestUpsertUserCreatesPending(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.UpsertUser(ctx, 1, "Ivan Ivanov", "+79990000000", "Moscow", 30))

	user, err := db.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, user.Status)
	assert.Equal(t, "Ivan Ivanov", user.FullName)
	assert.Equal(t, "+79990000000", user.Phone)
	assert.Equal(t, "Moscow", user.City)
	assert.Equal(t, 30, user.Age)
	assert.Nil(t, user.LastActivityAt)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUpsertUserResetsStatusAndOverwrites(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.UpsertUser(ctx, 1, "Old", "1", "A", 20))
	first, err := db.GetUser(ctx, 1)
	require.NoError(t, err)

	for _, status := range []models.Status{models.StatusApproved, models.StatusRejected, models.StatusBanned} {
		require.NoError(t, db.SetStatus(ctx, 1, status))
		require.NoError(t, db.UpsertUser(ctx, 1, "New", "2", "B", 21))

		user, err := db.GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, user.Status, "after %s", status)
		assert.Equal(t, "New", user.FullName)
		assert.Equal(t, "2", user.Phone)
		assert.Equal(t, "B", user.City)
		assert.Equal(t, 21, user.Age)
		assert.True(t, first.CreatedAt.Equal(user.CreatedAt), "created_at must be kept")
	}

	// повторная идентичная регистрация ничего не ломает
	require.NoError(t, db.UpsertUser(ctx, 1, "New", "2", "B", 21))
	assert.Equal(t, int64(1), countRows(t, db, "users"))
}

func TestGetUserNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	assert.ErrorIs(t, db.SetStatus(ctx, 5, models.StatusApproved), domain.ErrUserNotFound)
	require.NoError(t, db.UpsertUser(ctx, 5, "A", "1", "C", 18))
	assert.ErrorIs(t, db.SetStatus(ctx, 5, "unknown"), domain.ErrInvalidInput)

	require.NoError(t, db.SetStatus(ctx, 5, models.StatusBanned))
	user, err := db.GetUser(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, user.Status)
}

func TestRecordActivityUnknownUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	err := db.RecordActivity(ctx, 77, models.CategoryPushups, 10, time.Now())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Equal(t, int64(0), countRows(t, db, "activities"))
	assert.Equal(t, int64(0), countRows(t, db, "users"))
}

func TestRecordActivityValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, 1, "A", "1", "C", 18))

	assert.ErrorIs(t, db.RecordActivity(ctx, 1, "swimming", 1, time.Now()), domain.ErrInvalidInput)
	assert.ErrorIs(t, db.RecordActivity(ctx, 1, models.CategoryRunning, 0, time.Now()), domain.ErrInvalidInput)
	assert.ErrorIs(t, db.RecordActivity(ctx, 1, models.CategoryRunning, -3, time.Now()), domain.ErrInvalidInput)
	assert.Equal(t, int64(0), countRows(t, db, "activities"))
}

func TestRecordActivityUpdatesLastActivity(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, 1, "A", "1", "C", 18))

	at := time.Date(2025, 3, 10, 12, 30, 0, 0, time.UTC)
	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryRunning, 5.5, at))

	user, err := db.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, user.LastActivityAt)
	assert.True(t, at.Equal(*user.LastActivityAt))
	assert.Equal(t, int64(1), countRows(t, db, "activities"))
}

func TestPersonalTotal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, db.UpsertUser(ctx, 1, "Ivan Ivanov", "+79990000000", "Moscow", 30))
	require.NoError(t, db.SetStatus(ctx, 1, models.StatusApproved))

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	total, err := db.PersonalTotal(ctx, 1, models.CategoryPushups, &today)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)

	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryPushups, 20, now))
	total, err = db.PersonalTotal(ctx, 1, models.CategoryPushups, &today)
	require.NoError(t, err)
	assert.Equal(t, 20.0, total)

	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryPushups, 15, now))
	total, err = db.PersonalTotal(ctx, 1, models.CategoryPushups, &today)
	require.NoError(t, err)
	assert.Equal(t, 35.0, total)

	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryPushups, 100, today.Add(-time.Hour)))
	total, err = db.PersonalTotal(ctx, 1, models.CategoryPushups, &today)
	require.NoError(t, err)
	assert.Equal(t, 35.0, total)

	total, err = db.PersonalTotal(ctx, 1, models.CategoryPushups, nil)
	require.NoError(t, err)
	assert.Equal(t, 135.0, total)

	total, err = db.PersonalTotal(ctx, 1, models.CategorySquats, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.Add(-2 * time.Hour)

	users := []struct {
		id     int64
		name   string
		status models.Status
	}{
		{1, "Anna", models.StatusApproved},
		{2, "Boris", models.StatusApproved},
		{3, "Pending Pete", models.StatusPending},
		{4, "Banned Bob", models.StatusBanned},
	}
	for _, u := range users {
		require.NoError(t, db.UpsertUser(ctx, u.id, u.name, "1", "City", 30))
		require.NoError(t, db.SetStatus(ctx, u.id, u.status))
	}

	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryPushups, 10, now))
	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryPushups, 5, now))
	require.NoError(t, db.RecordActivity(ctx, 2, models.CategoryPushups, 12, now))
	require.NoError(t, db.RecordActivity(ctx, 2, models.CategoryPushups, 50, yesterday))
	require.NoError(t, db.RecordActivity(ctx, 3, models.CategoryPushups, 500, now))
	require.NoError(t, db.RecordActivity(ctx, 4, models.CategoryPushups, 900, now))
	require.NoError(t, db.RecordActivity(ctx, 1, models.CategorySquats, 99, now))

	entries, err := db.Leaderboard(ctx, models.CategoryPushups, &today)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Anna", entries[0].FullName)
	assert.Equal(t, 15.0, entries[0].Total)
	assert.Equal(t, "Boris", entries[1].FullName)
	assert.Equal(t, 12.0, entries[1].Total)

	entries, err = db.Leaderboard(ctx, models.CategoryPushups, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Boris", entries[0].FullName)
	assert.Equal(t, 62.0, entries[0].Total)

	entries, err = db.Leaderboard(ctx, models.CategoryReading, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLeaderboardLimit(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now().UTC()

	for id := int64(1); id <= 12; id++ {
		require.NoError(t, db.UpsertUser(ctx, id, "User", "1", "City", 30))
		require.NoError(t, db.SetStatus(ctx, id, models.StatusApproved))
		require.NoError(t, db.RecordActivity(ctx, id, models.CategoryRunning, float64(id), now))
	}

	entries, err := db.Leaderboard(ctx, models.CategoryRunning, nil)
	require.NoError(t, err)
	require.Len(t, entries, LeaderboardLimit)
	assert.Equal(t, 12.0, entries[0].Total)
	assert.Equal(t, 3.0, entries[9].Total)
}

func TestListByStatusOrdering(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []int64{10, 20, 30} {
		created := base.Add(time.Duration(i) * time.Hour)
		db.now = func() time.Time { return created }
		require.NoError(t, db.UpsertUser(ctx, id, "U", "1", "C", 20))
	}
	require.NoError(t, db.SetStatus(ctx, 20, models.StatusApproved))

	pending, err := db.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, int64(10), pending[0].UserID)
	assert.Equal(t, int64(30), pending[1].UserID)

	members, err := db.ListByStatus(ctx, models.StatusApproved, models.StatusPending)
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, []int64{30, 20, 10}, []int64{members[0].UserID, members[1].UserID, members[2].UserID})

	ids, err := db.UserIDsByStatus(ctx, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, ids)

	counts, err := db.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.StatusPending])
	assert.Equal(t, int64(1), counts[models.StatusApproved])
}

func TestMemberSummaries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()

	require.NoError(t, db.UpsertUser(ctx, 1, "A", "1", "C", 20))
	require.NoError(t, db.UpsertUser(ctx, 2, "B", "2", "C", 20))
	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryReading, 30, now))
	require.NoError(t, db.RecordActivity(ctx, 1, models.CategoryReading, 12, now))

	summaries, err := db.MemberSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 42.0, summaries[0].Totals[models.CategoryReading])
	assert.Equal(t, 0.0, summaries[1].Totals[models.CategoryReading])
}
