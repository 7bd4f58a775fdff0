package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fitbot/internal/domain"
	"fitbot/internal/metrics"
	"fitbot/internal/models"
)

func (e *Engine) startActivity(ctx context.Context, userID int64) (Response, error) {
	if resp, ok, err := e.gate(ctx, userID); !ok {
		return resp, err
	}
	if _, err := e.states.StartFlow(ctx, userID, domain.FlowActivity, domain.StepCategory); err != nil {
		return Response{}, err
	}
	return Response{Text: msgChooseLog, Layout: LayoutInline, Actions: activityKeyboard()}, nil
}

func (e *Engine) selectActivityCategory(ctx context.Context, userID int64, arg string) (Response, error) {
	state, err := e.states.GetUserState(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if !state.In(domain.FlowActivity, domain.StepCategory) {
		return Response{Notice: msgStaleMenu}, nil
	}
	category, ok := models.ParseCategory(arg)
	if !ok {
		return Response{Notice: msgUnknownAction}, nil
	}
	if err := e.states.Advance(ctx, state, domain.DataCategory, string(category), domain.StepValue); err != nil {
		return Response{}, err
	}
	return Response{Text: fmt.Sprintf("Сколько \"%s\" добавить? Введите число.", category.Label())}, nil
}

// ParseValue принимает десятичную запятую; значение должно быть конечным и больше нуля
func ParseValue(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: value %q", domain.ErrInvalidInput, text)
	}
	return v, nil
}

func (e *Engine) activityValue(ctx context.Context, state *domain.UserState, text string) (Response, error) {
	value, err := ParseValue(text)
	if err != nil {
		return Response{Text: msgBadValue}, nil
	}
	// статус мог измениться, пока пользователь вводил число
	if resp, ok, err := e.gate(ctx, state.UserID); !ok {
		return resp, err
	}

	category := models.Category(state.Get(domain.DataCategory))
	err = e.store.RecordActivity(ctx, state.UserID, category, value, e.now())
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		if err := e.states.ClearUserState(ctx, state.UserID); err != nil {
			return Response{}, err
		}
		return e.denied(AccessNotRegistered), nil
	case errors.Is(err, domain.ErrInvalidInput):
		e.logger.Warn().Err(err).Int64("user_id", state.UserID).Msg("broken activity state")
		return e.startActivity(ctx, state.UserID)
	case err != nil:
		return Response{}, err
	}

	if err := e.states.ClearUserState(ctx, state.UserID); err != nil {
		return Response{}, err
	}
	metrics.IncActivity(string(category))
	e.logger.Info().Int64("user_id", state.UserID).Str("category", string(category)).Float64("value", value).Msg("activity recorded")

	return e.mainMenu(ctx, state.UserID, fmt.Sprintf("Записано! %s: %s", category.Label(), FormatNumber(value)))
}

func (e *Engine) startRating(ctx context.Context, userID int64) (Response, error) {
	if resp, ok, err := e.gate(ctx, userID); !ok {
		return resp, err
	}
	if _, err := e.states.StartFlow(ctx, userID, domain.FlowRating, domain.StepCategory); err != nil {
		return Response{}, err
	}
	return Response{Text: msgChooseRating, Layout: LayoutInline, Actions: ratingKeyboard()}, nil
}

func (e *Engine) selectRatingCategory(ctx context.Context, userID int64, arg string) (Response, error) {
	state, err := e.states.GetUserState(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if state == nil || state.Flow != domain.FlowRating {
		return Response{Notice: msgStaleMenu}, nil
	}
	category, ok := models.ParseCategory(arg)
	if !ok {
		return Response{Notice: msgUnknownAction}, nil
	}
	if err := e.states.Advance(ctx, state, domain.DataCategory, string(category), domain.StepPeriod); err != nil {
		return Response{}, err
	}
	return Response{
		Text:    fmt.Sprintf("Показываю рейтинги для \"%s\". Выберите период:", category.Label()),
		Layout:  LayoutInline,
		Actions: periodKeyboard(category),
	}, nil
}

// showRating arg в формате "<категория>:<период>". Кнопки периода из старых сообщений
// тоже работают, если у пользователя нет другого активного диалога.
func (e *Engine) showRating(ctx context.Context, userID int64, arg string) (Response, error) {
	rawCategory, rawPeriod, _ := strings.Cut(arg, ":")
	category, ok := models.ParseCategory(rawCategory)
	period, okPeriod := ParsePeriod(rawPeriod)
	if !ok || !okPeriod {
		return Response{Notice: msgUnknownAction}, nil
	}

	state, err := e.states.GetUserState(ctx, userID)
	if err != nil {
		return Response{}, err
	}
	if state != nil && state.Flow != domain.FlowRating {
		return Response{Notice: msgStaleMenu}, nil
	}
	if resp, ok, err := e.gate(ctx, userID); !ok {
		return resp, err
	}

	text, err := e.LeaderboardView(ctx, category, period)
	if err != nil {
		return Response{}, err
	}
	if err := e.states.ClearUserState(ctx, userID); err != nil {
		return Response{}, err
	}
	return Response{
		Text:    text,
		Layout:  LayoutInline,
		Actions: [][]Action{{{Label: LabelBack, Token: TokenBackRating}}},
	}, nil
}
