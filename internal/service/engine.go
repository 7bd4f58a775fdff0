package service

import (
	"context"
	"strings"
	"time"

	"fitbot/internal/domain"
	"fitbot/internal/metrics"
	"fitbot/internal/models"
	"github.com/rs/zerolog"
)

// EventKind вид входящего события
type EventKind int

const (
	EventCommand EventKind = iota
	EventText
	EventButton
)

func (k EventKind) String() string {
	switch k {
	case EventCommand:
		return "command"
	case EventText:
		return "text"
	case EventButton:
		return "button"
	}
	return "unknown"
}

// Event входящее событие от транспорта, уже без привязки к Telegram
type Event struct {
	UserID int64
	Kind   EventKind
	Text   string
	Token  string
}

// Layout как показывать варианты ответа
type Layout int

const (
	LayoutNone Layout = iota
	// LayoutMenu постоянная клавиатура, нажатие приходит текстом
	LayoutMenu
	// LayoutInline кнопки под сообщением, нажатие приходит токеном
	LayoutInline
)

// Action одна кнопка
type Action struct {
	Label string
	Token string
}

// Response ответ пользователю. Пустой Text означает, что сообщение не отправляется.
type Response struct {
	Text     string
	Layout   Layout
	Actions  [][]Action
	Document string
	// Notice короткое всплывающее уведомление в ответ на нажатие кнопки
	Notice string
	Alert  bool
}

// Store хранилище пользователей и активностей
type Store interface {
	UpsertUser(ctx context.Context, userID int64, fullName, phone, city string, age int) error
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	SetStatus(ctx context.Context, userID int64, status models.Status) error
	ListByStatus(ctx context.Context, statuses ...models.Status) ([]models.User, error)
	ListPending(ctx context.Context) ([]models.User, error)
	UserIDsByStatus(ctx context.Context, statuses ...models.Status) ([]int64, error)
	CountByStatus(ctx context.Context) (map[models.Status]int64, error)
	RecordActivity(ctx context.Context, userID int64, category models.Category, value float64, at time.Time) error
	Leaderboard(ctx context.Context, category models.Category, since *time.Time) ([]models.LeaderboardEntry, error)
	PersonalTotal(ctx context.Context, userID int64, category models.Category, since *time.Time) (float64, error)
	MemberSummaries(ctx context.Context) ([]models.MemberSummary, error)
}

// Notifier доставляет сообщения пользователям вне текущего диалога
type Notifier interface {
	Notify(ctx context.Context, userID int64, resp Response) error
}

// Exporter пишет выгрузку участников в файл и возвращает путь к нему
type Exporter interface {
	ExportMembers(ctx context.Context, members []models.MemberSummary, now time.Time) (string, error)
}

// SheetsSyncer переносит участников во внешнюю таблицу
type SheetsSyncer interface {
	SyncMembers(ctx context.Context, members []models.MemberSummary) error
}

// Deps зависимости Engine. Exporter и Sheets необязательны.
type Deps struct {
	Store    Store
	States   *StateService
	Admins   Admins
	Notifier Notifier
	Exporter Exporter
	Sheets   SheetsSyncer
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Engine диалоговая логика бота
type Engine struct {
	store    Store
	states   *StateService
	admins   Admins
	notifier Notifier
	exporter Exporter
	sheets   SheetsSyncer
	logger   zerolog.Logger
	now      func() time.Time

	commands map[string]commandFunc
}

type commandFunc func(ctx context.Context, userID int64) (Response, error)

func NewEngine(d Deps) *Engine {
	now := d.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	e := &Engine{
		store:    d.Store,
		states:   d.States,
		admins:   d.Admins,
		notifier: d.Notifier,
		exporter: d.Exporter,
		sheets:   d.Sheets,
		logger:   d.Logger.With().Str("component", "engine").Logger(),
		now:      now,
	}
	e.commands = map[string]commandFunc{
		"/start":       e.start,
		"/cancel":      e.backToMain,
		LabelBack:      e.backToMain,
		"/register":    e.startRegistration,
		LabelRegister:  e.startRegistration,
		"/log":         e.startActivity,
		LabelLog:       e.startActivity,
		"/rating":      e.startRating,
		LabelRating:    e.startRating,
		"/me":          e.aboutMe,
		LabelAboutMe:   e.aboutMe,
		"/broadcast":   e.startBroadcast,
		LabelBroadcast: e.startBroadcast,
		"/members":     e.listMembers,
		LabelMembers:   e.listMembers,
		"/blacklist":   e.listBlacklist,
		LabelBlacklist: e.listBlacklist,
		"/pending":     e.listPending,
		LabelPending:   e.listPending,
		"/stats":       e.stats,
		"/export":      e.export,
		"/sync":        e.sync,
	}
	return e
}

// Handle обрабатывает одно событие. События одного пользователя обрабатываются строго по очереди.
func (e *Engine) Handle(ctx context.Context, ev Event) (resp Response, err error) {
	start := time.Now()
	metrics.IncUpdate(ev.Kind.String())
	defer metrics.ObserveUpdate(start)

	unlock := e.states.Lock(ev.UserID)
	defer unlock()

	if ev.Kind == EventButton {
		resp, err = e.handleButton(ctx, ev.UserID, ev.Token)
	} else {
		resp, err = e.handleText(ctx, ev.UserID, ev.Text)
	}
	if err != nil {
		metrics.IncError()
		e.logger.Error().Err(err).Int64("user_id", ev.UserID).Str("kind", ev.Kind.String()).Msg("handle event")
	}
	return resp, err
}

func (e *Engine) handleText(ctx context.Context, userID int64, text string) (Response, error) {
	text = strings.TrimSpace(text)
	if cmd, ok := e.commands[commandName(text)]; ok {
		return cmd(ctx, userID)
	}

	state, err := e.states.GetUserState(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	switch {
	case state == nil:
		return e.fallback(ctx, userID)
	case state.Flow == domain.FlowRegistration:
		return e.registrationInput(ctx, state, text)
	case state.In(domain.FlowActivity, domain.StepValue):
		return e.activityValue(ctx, state, text)
	case state.In(domain.FlowBroadcast, domain.StepText):
		return e.broadcastText(ctx, state, text)
	case state.In(domain.FlowActivity, domain.StepCategory):
		return Response{Text: msgUseButtons, Layout: LayoutInline, Actions: activityKeyboard()}, nil
	case state.In(domain.FlowRating, domain.StepCategory):
		return Response{Text: msgUseButtons, Layout: LayoutInline, Actions: ratingKeyboard()}, nil
	case state.In(domain.FlowRating, domain.StepPeriod):
		cat := models.Category(state.Get(domain.DataCategory))
		return Response{Text: msgUseButtons, Layout: LayoutInline, Actions: periodKeyboard(cat)}, nil
	}
	return e.fallback(ctx, userID)
}

func (e *Engine) handleButton(ctx context.Context, userID int64, token string) (Response, error) {
	kind, arg, _ := strings.Cut(token, ":")
	switch kind {
	case prefixBack:
		if arg == "rating" {
			return e.startRating(ctx, userID)
		}
		return e.backToMain(ctx, userID)
	case prefixActivity:
		return e.selectActivityCategory(ctx, userID, arg)
	case prefixRating:
		return e.selectRatingCategory(ctx, userID, arg)
	case prefixPeriod:
		return e.showRating(ctx, userID, arg)
	case prefixApprove, prefixReject, prefixBan, prefixUnban:
		return e.moderate(ctx, userID, kind, arg)
	}
	e.logger.Warn().Int64("user_id", userID).Str("token", token).Msg("unknown button")
	return Response{Notice: msgUnknownAction}, nil
}

// commandName "/start@fitbot payload" -> "/start"; обычный текст не меняется
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return text
	}
	name := strings.Fields(text)[0]
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}

// start сбрасывает диалог и показывает экран по статусу пользователя
func (e *Engine) start(ctx context.Context, userID int64) (Response, error) {
	if err := e.states.ClearUserState(ctx, userID); err != nil {
		return Response{}, err
	}
	access, err := e.CheckAccess(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	switch access {
	case AccessNotRegistered:
		return registerMenu(msgWelcomeNew), nil
	case AccessPendingApproval:
		return Response{Text: msgAlreadyPending}, nil
	case AccessRejected:
		return Response{Text: msgAlreadyRejected}, nil
	case AccessBanned:
		return Response{Text: msgAlreadyBanned}, nil
	}
	return e.mainMenu(ctx, userID, msgWelcomeBack)
}

func (e *Engine) backToMain(ctx context.Context, userID int64) (Response, error) {
	if err := e.states.ClearUserState(ctx, userID); err != nil {
		return Response{}, err
	}
	admin, err := e.isAdmin(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if !admin {
		access, err := e.CheckAccess(ctx, userID)
		if err != nil {
			return Response{}, err
		}
		if access != AccessAllowed {
			return e.denied(access), nil
		}
	}
	return MainMenu(msgMainMenu, admin), nil
}

func (e *Engine) fallback(ctx context.Context, userID int64) (Response, error) {
	access, err := e.CheckAccess(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if access != AccessAllowed {
		return e.denied(access), nil
	}
	return e.mainMenu(ctx, userID, msgMainMenu)
}

func (e *Engine) mainMenu(ctx context.Context, userID int64, text string) (Response, error) {
	admin, err := e.isAdmin(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	return MainMenu(text, admin), nil
}

// gate пускает только одобренных пользователей. При отказе диалог сбрасывается.
func (e *Engine) gate(ctx context.Context, userID int64) (Response, bool, error) {
	access, err := e.CheckAccess(ctx, userID)
	if err != nil {
		return Response{}, false, err
	}
	if access == AccessAllowed {
		return Response{}, true, nil
	}
	if err := e.states.ClearUserState(ctx, userID); err != nil {
		return Response{}, false, err
	}
	e.logger.Info().Int64("user_id", userID).Str("access", access.String()).Msg("access denied")
	return e.denied(access), false, nil
}

func (e *Engine) denied(access Access) Response {
	switch access {
	case AccessPendingApproval:
		return Response{Text: msgGatePending}
	case AccessRejected:
		return Response{Text: msgGateRejected}
	case AccessBanned:
		return Response{Text: msgGateBanned}
	}
	return registerMenu(msgNeedRegistration)
}
