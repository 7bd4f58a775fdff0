package models

import "time"

// Category вид активности
type Category string

const (
	CategoryPushups Category = "pushups"
	CategorySquats  Category = "squats"
	CategoryPullups Category = "pullups"
	CategoryRunning Category = "running"
	CategoryReading Category = "reading"
)

// Categories фиксированный порядок категорий в меню и статистике
var Categories = []Category{
	CategoryPushups,
	CategorySquats,
	CategoryPullups,
	CategoryRunning,
	CategoryReading,
}

var categoryLabels = map[Category]string{
	CategoryPushups: "Отжимания",
	CategorySquats:  "Приседания",
	CategoryPullups: "Подтягивания",
	CategoryRunning: "Бег",
	CategoryReading: "Прочитанные страницы",
}

// ParseCategory возвращает категорию по ключу из callback data
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryLabels[c]
	return c, ok
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label человекочитаемое название категории
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Activity запись о выполненной активности. Только добавляется.
type Activity struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index:idx_activities_user_category,priority:1"`
	Category  Category  `gorm:"column:category;type:text;not null;index:idx_activities_user_category,priority:2"`
	Value     float64   `gorm:"column:value;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_activities_user_category,priority:3"`

	User *User `gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Activity) TableName() string { return "activities" }

// LeaderboardEntry строка рейтинга
type LeaderboardEntry struct {
	FullName string  `gorm:"column:full_name"`
	City     string  `gorm:"column:city"`
	Total    float64 `gorm:"column:total"`
}
