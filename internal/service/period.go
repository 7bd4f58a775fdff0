package service

import (
	"time"
)

// Period период рейтинга
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// Periods порядок кнопок выбора периода
var Periods = []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll}

var periodLabels = map[Period]string{
	PeriodDay:   "За 1 день",
	PeriodWeek:  "За неделю",
	PeriodMonth: "За месяц",
	PeriodYear:  "За год",
	PeriodAll:   "За все время",
}

func ParsePeriod(s string) (Period, bool) {
	p := Period(s)
	_, ok := periodLabels[p]
	return p, ok
}

func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return "За период"
}

// StartOfDay начало текущих суток по UTC
func StartOfDay(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Since нижняя граница периода относительно now; nil для "за все время".
// Вычисляется при каждом запросе.
func (p Period) Since(now time.Time) *time.Time {
	day := StartOfDay(now)
	var since time.Time
	switch p {
	case PeriodDay:
		since = day
	case PeriodWeek:
		since = day.AddDate(0, 0, -7)
	case PeriodMonth:
		since = day.AddDate(0, 0, -30)
	case PeriodYear:
		since = day.AddDate(0, 0, -365)
	default:
		return nil
	}
	return &since
}
