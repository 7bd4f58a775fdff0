package bot

import (
	"context"
	"sync"

	"fitbot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const msgInternalError = "Что-то пошло не так. Попробуйте еще раз чуть позже."

// Handler диалоговая логика, которой бот передает события
type Handler interface {
	Handle(ctx context.Context, ev service.Event) (service.Response, error)
}

type Bot struct {
	api     TelegramAPI
	sender  *Sender
	handler Handler
	timeout int
	logger  zerolog.Logger

	wg sync.WaitGroup
}

func New(api TelegramAPI, sender *Sender, handler Handler, timeout int, logger zerolog.Logger) *Bot {
	if timeout <= 0 {
		timeout = 60
	}
	return &Bot{
		api:     api,
		sender:  sender,
		handler: handler,
		timeout: timeout,
		logger:  logger.With().Str("component", "bot").Logger(),
	}
}

// Start читает обновления до отмены ctx. Каждое обновление обрабатывается в своей
// горутине; порядок событий одного пользователя обеспечивает Handler.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Msg("bot started")
	defer func() {
		b.api.StopReceivingUpdates()
		b.wg.Wait()
		b.logger.Info().Msg("bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()
				b.HandleUpdate(ctx, update)
			}(update)
		}
	}
}

// HandleUpdate переводит обновление в событие и показывает ответ
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Int("update_id", update.UpdateID).Msg("update handler panicked")
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	ev, ok := eventFromMessage(msg)
	if !ok {
		return
	}
	chatID := msg.Chat.ID

	resp, err := b.handler.Handle(ctx, ev)
	if err != nil {
		resp = service.Response{Text: msgInternalError}
	}
	if err := b.sender.Reply(ctx, chatID, resp); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("reply")
		return
	}
	// в чате остается только актуальное сообщение бота
	b.sender.DeleteMessage(chatID, msg.MessageID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	ev, ok := eventFromCallback(cb)
	if !ok {
		b.sender.AnswerCallback(cb.ID, "", false)
		return
	}
	chatID := cb.Message.Chat.ID

	resp, err := b.handler.Handle(ctx, ev)
	if err != nil {
		b.sender.AnswerCallback(cb.ID, msgInternalError, true)
		return
	}
	b.sender.AnswerCallback(cb.ID, resp.Notice, resp.Alert)

	if resp.Text == "" && resp.Document == "" {
		return
	}
	// кнопка нажата под конкретным сообщением, его и редактируем
	b.sender.remember(chatID, cb.Message.MessageID)
	if err := b.sender.Reply(ctx, chatID, resp); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("reply to callback")
	}
}

// eventFromMessage принимает только личные сообщения. Контакт превращается в
// текст с номером телефона.
func eventFromMessage(msg *tgbotapi.Message) (service.Event, bool) {
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return service.Event{}, false
	}
	text := msg.Text
	if text == "" && msg.Contact != nil {
		text = msg.Contact.PhoneNumber
	}
	kind := service.EventText
	if msg.IsCommand() {
		kind = service.EventCommand
	}
	return service.Event{UserID: msg.From.ID, Kind: kind, Text: text}, true
}

func eventFromCallback(cb *tgbotapi.CallbackQuery) (service.Event, bool) {
	if cb.From == nil || cb.Message == nil || cb.Message.Chat == nil || !cb.Message.Chat.IsPrivate() {
		return service.Event{}, false
	}
	return service.Event{UserID: cb.From.ID, Kind: service.EventButton, Token: cb.Data}, true
}
