package service

import (
	"context"
	"strconv"

	"fitbot/internal/domain"
	"fitbot/internal/metrics"
)

// startRegistration доступна при любом статусе; повторная анкета возвращает статус в pending
func (e *Engine) startRegistration(ctx context.Context, userID int64) (Response, error) {
	if _, err := e.states.StartFlow(ctx, userID, domain.FlowRegistration, domain.StepFullName); err != nil {
		return Response{}, err
	}
	return Response{Text: msgAskFullName}, nil
}

func (e *Engine) registrationInput(ctx context.Context, state *domain.UserState, text string) (Response, error) {
	if text == "" {
		return Response{Text: msgEmptyInput}, nil
	}

	switch state.Step {
	case domain.StepFullName:
		return e.advance(ctx, state, domain.DataFullName, text, domain.StepPhone, msgAskPhone)
	case domain.StepPhone:
		return e.advance(ctx, state, domain.DataPhone, text, domain.StepCity, msgAskCity)
	case domain.StepCity:
		return e.advance(ctx, state, domain.DataCity, text, domain.StepAge, msgAskAge)
	case domain.StepAge:
		return e.completeRegistration(ctx, state, text)
	}

	e.logger.Warn().Int64("user_id", state.UserID).Str("step", string(state.Step)).Msg("unexpected registration step")
	return e.startRegistration(ctx, state.UserID)
}

func (e *Engine) advance(ctx context.Context, state *domain.UserState, key, value string, next domain.Step, prompt string) (Response, error) {
	if err := e.states.Advance(ctx, state, key, value, next); err != nil {
		return Response{}, err
	}
	return Response{Text: prompt}, nil
}

func (e *Engine) completeRegistration(ctx context.Context, state *domain.UserState, text string) (Response, error) {
	age, err := strconv.Atoi(text)
	if err != nil || age <= 0 {
		return Response{Text: msgBadAge}, nil
	}

	fullName := state.Get(domain.DataFullName)
	phone := state.Get(domain.DataPhone)
	city := state.Get(domain.DataCity)
	if err := e.store.UpsertUser(ctx, state.UserID, fullName, phone, city, age); err != nil {
		return Response{}, err
	}
	if err := e.states.ClearUserState(ctx, state.UserID); err != nil {
		return Response{}, err
	}
	metrics.IncRegistration()
	e.logger.Info().Int64("user_id", state.UserID).Str("city", city).Msg("registration submitted")

	report := e.deliver(ctx, e.admins.IDs(), Response{
		Text:    registrationNotice(fullName, phone, city, age),
		Layout:  LayoutInline,
		Actions: approvalKeyboard(state.UserID),
	})
	if report.Failed > 0 {
		e.logger.Warn().Int64("user_id", state.UserID).Int("failed", report.Failed).Msg("some admins were not notified")
	}

	return Response{Text: msgRegistered}, nil
}
