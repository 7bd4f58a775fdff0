package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fitbot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramAPI часть *tgbotapi.BotAPI, которой пользуется бот
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Sender отправляет ответы и уведомления. Помнит последнее сообщение бота в каждом
// чате, чтобы по возможности редактировать его вместо отправки нового.
type Sender struct {
	api    TelegramAPI
	logger zerolog.Logger

	mu   sync.Mutex
	last map[int64]int
}

func NewSender(api TelegramAPI, logger zerolog.Logger) *Sender {
	return &Sender{
		api:    api,
		logger: logger.With().Str("component", "sender").Logger(),
		last:   make(map[int64]int),
	}
}

// Notify всегда отправляет новое сообщение, чтобы получатель увидел уведомление
func (s *Sender) Notify(_ context.Context, userID int64, resp service.Response) error {
	if resp.Text == "" {
		return nil
	}
	return s.send(userID, resp)
}

// Reply показывает ответ в чате. Ответ без постоянной клавиатуры заменяет текст
// последнего сообщения бота; при ошибке редактирования уходит новым сообщением.
func (s *Sender) Reply(_ context.Context, chatID int64, resp service.Response) error {
	if resp.Document != "" {
		return s.sendDocument(chatID, resp)
	}
	if resp.Text == "" {
		return nil
	}
	if resp.Layout != service.LayoutMenu {
		if msgID, ok := s.lastMessage(chatID); ok {
			err := s.edit(chatID, msgID, resp)
			if err == nil {
				return nil
			}
			s.logger.Debug().Err(err).Int64("chat_id", chatID).Int("message_id", msgID).Msg("edit failed, sending new message")
		}
	}
	return s.send(chatID, resp)
}

func (s *Sender) AnswerCallback(callbackID, text string, alert bool) {
	cfg := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	if _, err := s.api.Request(cfg); err != nil {
		s.logger.Debug().Err(err).Msg("answer callback")
	}
}

func (s *Sender) DeleteMessage(chatID int64, messageID int) {
	if _, err := s.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		s.logger.Debug().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("delete message")
	}
}

func (s *Sender) send(chatID int64, resp service.Response) error {
	msg := tgbotapi.NewMessage(chatID, resp.Text)
	if markup := replyMarkup(resp); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := s.api.Send(msg)
	if err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	s.remember(chatID, sent.MessageID)
	return nil
}

func (s *Sender) edit(chatID int64, messageID int, resp service.Response) error {
	var cfg tgbotapi.EditMessageTextConfig
	if resp.Layout == service.LayoutInline && len(resp.Actions) > 0 {
		cfg = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, resp.Text, inlineKeyboard(resp.Actions))
	} else {
		cfg = tgbotapi.NewEditMessageText(chatID, messageID, resp.Text)
	}
	_, err := s.api.Send(cfg)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func (s *Sender) sendDocument(chatID int64, resp service.Response) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(resp.Document))
	doc.Caption = resp.Text
	if _, err := s.api.Send(doc); err != nil {
		return fmt.Errorf("send document to %d: %w", chatID, err)
	}
	// после файла редактировать старое сообщение уже бессмысленно
	s.forget(chatID)
	return nil
}

func (s *Sender) lastMessage(chatID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.last[chatID]
	return id, ok
}

func (s *Sender) remember(chatID int64, messageID int) {
	s.mu.Lock()
	s.last[chatID] = messageID
	s.mu.Unlock()
}

func (s *Sender) forget(chatID int64) {
	s.mu.Lock()
	delete(s.last, chatID)
	s.mu.Unlock()
}
