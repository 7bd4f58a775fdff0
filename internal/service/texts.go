package service

import (
	"fmt"
	"strconv"
	"strings"

	"fitbot/internal/models"
)

// Тексты кнопок главного меню. Нажатие приходит обычным сообщением с этим текстом.
const (
	LabelRegister  = "🚀 Регистрация"
	LabelLog       = "✍️ Записать"
	LabelRating    = "🏆 Рейтинг"
	LabelAboutMe   = "ℹ️ О себе"
	LabelBroadcast = "📢 Рассылка"
	LabelMembers   = "👥 Участники"
	LabelBlacklist = "🚫 Черный список"
	LabelPending   = "⏳ Заявки"
	LabelBack      = "⬅️ Назад"
)

// Callback-токены
const (
	TokenBackMain   = "back:main"
	TokenBackRating = "back:rating"

	prefixActivity = "activity"
	prefixRating   = "rating"
	prefixPeriod   = "period"
	prefixApprove  = "approve"
	prefixReject   = "reject"
	prefixBan      = "ban"
	prefixUnban    = "unban"
	prefixBack     = "back"
)

// listLimit сколько пользователей показывать в административных списках
const listLimit = 25

const (
	msgWelcomeNew       = "Привет! 👋 Чтобы пользоваться ботом, нажми \"Регистрация\" и оставь свои данные."
	msgAlreadyPending   = "Ваш запрос на регистрацию уже отправлен администратору. Ждите подтверждения."
	msgAlreadyRejected  = "К сожалению, ваша регистрация была отклонена. Свяжитесь с администратором, если считаете это ошибкой."
	msgAlreadyBanned    = "🚫 Ваш профиль занесен в черный список. Напишите администратору, чтобы решить вопрос."
	msgWelcomeBack      = "С возвращением! Выберите действие:"
	msgMainMenu         = "Главное меню:"
	msgNeedRegistration = "Привет! 👋 Сначала нужно зарегистрироваться. Нажми «Регистрация» и заполните данные."
	msgGatePending      = "⏳ Заявка на модерации. Админ скоро проверит и даст доступ."
	msgGateRejected     = "🙅‍♂️ Заявка была отклонена. Напишите администратору, если это ошибка."
	msgGateBanned       = "🚫 Вы в черном списке бота. Свяжитесь с администратором для разблокировки."

	msgAskFullName   = "Введите ваше ФИО полностью:"
	msgAskPhone      = "📱 Укажите номер телефона (включая код страны):"
	msgAskCity       = "🏙️ В каком городе вы находитесь?"
	msgAskAge        = "🎂 Сколько вам лет?"
	msgEmptyInput    = "Ответ не может быть пустым. Попробуйте снова."
	msgBadAge        = "Возраст должен быть положительным числом. Попробуйте снова."
	msgRegistered    = "Спасибо! Ваши данные отправлены администратору. Мы сообщим, как только он одобрит запрос."
	msgChooseLog     = "Выберите, что хотите записать:"
	msgBadValue      = "Введите положительное число."
	msgChooseRating  = "Выберите категорию рейтинга:"
	msgUseButtons    = "Выберите вариант с помощью кнопок ниже."
	msgStaleMenu     = "Это меню уже неактуально"
	msgUnknownAction = "Неизвестное действие"

	msgAdminOnly       = "Эта функция доступна только администратору."
	msgNoRights        = "Недостаточно прав"
	msgAskBroadcast    = "Введите текст рассылки. Он уйдет всем одобренным пользователям:"
	msgBroadcastPrefix = "📢 Сообщение от админа:\n"
	msgUserMissing     = "Пользователь не найден"
	msgAlreadyHandled  = "Заявка уже обработана"
	msgListEmpty       = "Пока пусто ✨"
	msgListTruncated   = "\nПоказаны первые 25 записей."
	msgExportOff       = "Выгрузка в Excel не настроена."
	msgSyncOff         = "Синхронизация с Google Таблицей не настроена."
	msgSynced          = "✅ Участники синхронизированы с Google Таблицей"

	msgApprovedUser = "Ура! 🎉 Ваша регистрация одобрена. Можете пользоваться ботом."
	msgRejectedUser = "К сожалению, ваша заявка отклонена. Свяжитесь с администратором, чтобы узнать детали."
	msgBannedUser   = "🚫 Вы добавлены в черный список. Свяжитесь с администратором для разблокировки."
	msgUnbannedUser = "✅ Вы разблокированы! Доступ к боту восстановлен."
)

var activityButtonLabels = map[models.Category]string{
	models.CategoryPushups: "💪 Отжимания",
	models.CategorySquats:  "🏋️ Приседания",
	models.CategoryPullups: "🧗 Подтягивания",
	models.CategoryRunning: "🏃‍♂️ Бег (км)",
	models.CategoryReading: "📚 Прочитано",
}

var ratingButtonLabels = map[models.Category]string{
	models.CategoryPushups: "💪 Отжимания",
	models.CategorySquats:  "🏋️ Приседания",
	models.CategoryPullups: "🧗 Подтягивания",
	models.CategoryRunning: "🏃‍♂️ Бег",
	models.CategoryReading: "📚 Чтение",
}

var periodButtonLabels = map[Period]string{
	PeriodDay:   "🕐 За 1 день",
	PeriodWeek:  "📅 За неделю",
	PeriodMonth: "🗓️ За месяц",
	PeriodYear:  "📆 За год",
	PeriodAll:   "♾️ За все время",
}

var statusLabels = map[models.Status]string{
	models.StatusPending:  "⏳ на проверке",
	models.StatusApproved: "✅ одобрен",
	models.StatusRejected: "❌ отклонен",
	models.StatusBanned:   "🚫 в черном списке",
}

func menuRow(labels ...string) []Action {
	row := make([]Action, len(labels))
	for i, l := range labels {
		row[i] = Action{Label: l, Token: l}
	}
	return row
}

// MainMenu главное меню; администраторам добавляются служебные пункты
func MainMenu(text string, admin bool) Response {
	rows := [][]Action{
		menuRow(LabelLog, LabelRating),
		menuRow(LabelAboutMe),
	}
	if admin {
		rows = append(rows,
			menuRow(LabelBroadcast, LabelPending),
			menuRow(LabelMembers, LabelBlacklist),
		)
	}
	return Response{Text: text, Layout: LayoutMenu, Actions: rows}
}

func registerMenu(text string) Response {
	return Response{Text: text, Layout: LayoutMenu, Actions: [][]Action{menuRow(LabelRegister)}}
}

func backMainRow() []Action {
	return []Action{{Label: LabelBack, Token: TokenBackMain}}
}

func backMainResponse(text string) Response {
	return Response{Text: text, Layout: LayoutInline, Actions: [][]Action{backMainRow()}}
}

func activityKeyboard() [][]Action {
	rows := make([][]Action, 0, len(models.Categories)+1)
	for _, c := range models.Categories {
		rows = append(rows, []Action{{Label: activityButtonLabels[c], Token: prefixActivity + ":" + string(c)}})
	}
	return append(rows, backMainRow())
}

func ratingKeyboard() [][]Action {
	rows := make([][]Action, 0, len(models.Categories)+1)
	for _, c := range models.Categories {
		rows = append(rows, []Action{{Label: ratingButtonLabels[c], Token: prefixRating + ":" + string(c)}})
	}
	return append(rows, backMainRow())
}

func periodKeyboard(category models.Category) [][]Action {
	rows := make([][]Action, 0, len(Periods)+1)
	for _, p := range Periods {
		rows = append(rows, []Action{{
			Label: periodButtonLabels[p],
			Token: fmt.Sprintf("%s:%s:%s", prefixPeriod, category, p),
		}})
	}
	return append(rows, []Action{{Label: LabelBack, Token: TokenBackRating}})
}

func approvalKeyboard(userID int64) [][]Action {
	id := strconv.FormatInt(userID, 10)
	return [][]Action{
		{{Label: "✅ Одобрить", Token: prefixApprove + ":" + id}},
		{{Label: "❌ Отклонить", Token: prefixReject + ":" + id}},
	}
}

func usersKeyboard(users []models.User, action string) [][]Action {
	icon := "♻️"
	if action == prefixBan {
		icon = "🚫"
	}
	rows := make([][]Action, 0, len(users)+1)
	for _, u := range users {
		rows = append(rows, []Action{{
			Label: fmt.Sprintf("%s %s (%s)", icon, u.FullName, u.City),
			Token: fmt.Sprintf("%s:%d", action, u.UserID),
		}})
	}
	return append(rows, backMainRow())
}

func pendingKeyboard(users []models.User) [][]Action {
	rows := make([][]Action, 0, len(users)+1)
	for _, u := range users {
		rows = append(rows, []Action{
			{Label: "✅ " + u.FullName, Token: fmt.Sprintf("%s:%d", prefixApprove, u.UserID)},
			{Label: "❌", Token: fmt.Sprintf("%s:%d", prefixReject, u.UserID)},
		})
	}
	return append(rows, backMainRow())
}

func formatUsersBlock(title string, users []models.User) string {
	lines := []string{title}
	if len(users) == 0 {
		lines = append(lines, msgListEmpty)
	}
	for i, u := range users {
		lines = append(lines, fmt.Sprintf("%d. %s — %s (%s), %d лет", i+1, u.FullName, u.Phone, u.City, u.Age))
	}
	return strings.Join(lines, "\n")
}

func registrationNotice(fullName, phone, city string, age int) string {
	return "Новая заявка на регистрацию:\n" +
		fmt.Sprintf("👤 %s\n📞 %s\n🏙️ %s\n🎂 %d лет", fullName, phone, city, age)
}

// FormatNumber без лишних нулей: 20, 5.5
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
