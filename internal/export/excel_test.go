package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fitbot/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportMembers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exporter := NewMembersExporter(dir, zerolog.Nop())

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	last := time.Date(2024, 5, 3, 18, 45, 0, 0, time.UTC)
	members := []models.MemberSummary{
		{
			User: models.User{UserID: 1, FullName: "Ivan Petrov", Phone: "+7999", City: "Moscow", Age: 30,
				Status: models.StatusApproved, CreatedAt: created, LastActivityAt: &last},
			Totals: map[models.Category]float64{models.CategoryPushups: 35, models.CategoryRunning: 2.5},
		},
		{
			User:   models.User{UserID: 2, FullName: "Anna", Phone: "+7888", City: "Kazan", Age: 25, Status: models.StatusPending, CreatedAt: created},
			Totals: map[models.Category]float64{},
		},
	}

	path, err := exporter.ExportMembers(context.Background(), members, time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "members_2024-05-04_10-00-00.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetMembers}, f.GetSheetList())

	rows, err := f.GetRows(SheetMembers)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers(), rows[0])
	assert.Equal(t, []string{"1", "Ivan Petrov", "+7999", "Moscow", "30", "Одобрен", "01.05.2024 09:00", "03.05.2024 18:45", "35", "0", "0", "2.5", "0"}, rows[1])
	assert.Equal(t, "На проверке", rows[2][5])
	assert.Equal(t, "", rows[2][7])
}

func TestExportMembersCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMembersExporter(t.TempDir(), zerolog.Nop()).ExportMembers(ctx, nil, time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "Черный список", StatusName(models.StatusBanned))
	assert.Equal(t, "unknown", StatusName(models.Status("unknown")))
}

func TestSheetRange(t *testing.T) {
	assert.Equal(t, "Members!A1:M3", SheetRange("Members", 2))
	assert.Equal(t, "Members!A1:M1", SheetRange("Members", 0))
}
