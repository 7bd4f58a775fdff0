package service

import (
	"context"
	"fmt"
	"strings"

	"fitbot/internal/models"
)

// personalPeriods периоды личной статистики
var personalPeriods = []Period{PeriodDay, PeriodWeek, PeriodMonth}

const lastActivityLayout = "2006-01-02 15:04"

// LeaderboardView рейтинг категории за период. Граница периода считается в момент запроса.
func (e *Engine) LeaderboardView(ctx context.Context, category models.Category, period Period) (string, error) {
	entries, err := e.store.Leaderboard(ctx, category, period.Since(e.now()))
	if err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf("🏆 Топ по категории %s (%s)", category.Label(), period.Label())}
	if len(entries) == 0 {
		lines = append(lines, "Пока никто не оставлял записи. Будьте первым!")
		return strings.Join(lines, "\n"), nil
	}
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) — %s", i+1, entry.FullName, entry.City, FormatNumber(entry.Total)))
	}
	return strings.Join(lines, "\n"), nil
}

// PersonalStatsView профиль и суммы по всем категориям за день, неделю и месяц
func (e *Engine) PersonalStatsView(ctx context.Context, userID int64) (string, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	now := e.now()

	lastActivity := "нет записей"
	if user.LastActivityAt != nil {
		lastActivity = user.LastActivityAt.UTC().Format(lastActivityLayout)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n📞 %s\n🏙️ %s\n🗓️ В боте %d дн.\n", user.FullName, user.Phone, user.City, user.DaysSince(now))
	fmt.Fprintf(&b, "⏰ Последняя запись: %s\n", lastActivity)
	b.WriteString("\n📊 Ваша статистика:")

	for _, p := range personalPeriods {
		fmt.Fprintf(&b, "\n\n%s:", p.Label())
		since := p.Since(now)
		for _, c := range models.Categories {
			total, err := e.store.PersonalTotal(ctx, userID, c, since)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\n• %s: %s", c.Label(), FormatNumber(total))
		}
	}
	return b.String(), nil
}

func (e *Engine) aboutMe(ctx context.Context, userID int64) (Response, error) {
	if resp, ok, err := e.gate(ctx, userID); !ok {
		return resp, err
	}
	text, err := e.PersonalStatsView(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	return backMainResponse(text), nil
}
