package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fitbot/internal/domain"
	"fitbot/internal/metrics"
	"fitbot/internal/models"
)

// decision административное действие над пользователем
type decision struct {
	target  models.Status
	notice  string
	summary string
	notify  string
}

var decisions = map[string]decision{
	prefixApprove: {
		target:  models.StatusApproved,
		notice:  "Пользователь одобрен",
		summary: "✅ Заявка %s одобрена.",
		notify:  msgApprovedUser,
	},
	prefixReject: {
		target:  models.StatusRejected,
		notice:  "Пользователь отклонен",
		summary: "❌ Заявка %s отклонена.",
		notify:  msgRejectedUser,
	},
	prefixBan: {
		target:  models.StatusBanned,
		notice:  "Пользователь занесен в черный список",
		summary: "🚫 Пользователь %s добавлен в черный список.",
		notify:  msgBannedUser,
	},
	prefixUnban: {
		target:  models.StatusApproved,
		notice:  "Пользователь разбанен",
		summary: "✅ Пользователь %s разблокирован и возвращен в список одобренных.",
		notify:  msgUnbannedUser,
	},
}

// requireAdmin права проверяются заново при каждом вызове
func (e *Engine) requireAdmin(ctx context.Context, userID int64) error {
	ok, err := e.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		e.logger.Warn().Int64("user_id", userID).Msg("admin action rejected")
		return domain.ErrNotAdmin
	}
	return nil
}

// adminOnly выполняет fn только для администратора; иначе отвечает отказом
func (e *Engine) adminOnly(ctx context.Context, userID int64, fn func() (Response, error)) (Response, error) {
	err := e.requireAdmin(ctx, userID)
	if errors.Is(err, domain.ErrNotAdmin) {
		return Response{Text: msgAdminOnly}, nil
	}
	if err != nil {
		return Response{}, err
	}
	return fn()
}

func (e *Engine) moderate(ctx context.Context, adminID int64, action, arg string) (Response, error) {
	err := e.requireAdmin(ctx, adminID)
	if errors.Is(err, domain.ErrNotAdmin) {
		return Response{Notice: msgNoRights, Alert: true}, nil
	}
	if err != nil {
		return Response{}, err
	}

	d := decisions[action]
	targetID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return Response{Notice: msgUnknownAction}, nil
	}
	target, err := e.store.GetUser(ctx, targetID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return Response{Notice: msgUserMissing, Alert: true}, nil
	}
	if err != nil {
		return Response{}, err
	}
	if !CanTransition(target.Status, d.target) {
		e.logger.Info().Int64("admin_id", adminID).Int64("user_id", targetID).
			Str("status", string(target.Status)).Str("action", action).Msg("transition refused")
		return Response{Notice: msgAlreadyHandled + ": " + statusLabels[target.Status], Alert: true}, nil
	}

	if err := e.store.SetStatus(ctx, targetID, d.target); err != nil {
		return Response{}, err
	}
	metrics.IncModeration(action)
	e.logger.Info().Int64("admin_id", adminID).Int64("user_id", targetID).Str("action", action).Msg("user status changed")

	notice := Response{Text: d.notify}
	if d.target == models.StatusApproved {
		targetAdmin, err := e.isAdmin(ctx, targetID)
		if err != nil {
			return Response{}, err
		}
		notice = MainMenu(d.notify, targetAdmin)
	}
	_ = e.notify(ctx, targetID, notice)

	who := fmt.Sprintf("%s (%s)", target.FullName, target.City)
	resp := MainMenu(fmt.Sprintf(d.summary, who), true)
	resp.Notice = d.notice
	return resp, nil
}

func (e *Engine) startBroadcast(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		if _, err := e.states.StartFlow(ctx, userID, domain.FlowBroadcast, domain.StepText); err != nil {
			return Response{}, err
		}
		return Response{Text: msgAskBroadcast}, nil
	})
}

func (e *Engine) broadcastText(ctx context.Context, state *domain.UserState, text string) (Response, error) {
	err := e.requireAdmin(ctx, state.UserID)
	if errors.Is(err, domain.ErrNotAdmin) {
		if err := e.states.ClearUserState(ctx, state.UserID); err != nil {
			return Response{}, err
		}
		return Response{Text: msgAdminOnly}, nil
	}
	if err != nil {
		return Response{}, err
	}
	if text == "" {
		return Response{Text: msgEmptyInput}, nil
	}

	if err := e.states.ClearUserState(ctx, state.UserID); err != nil {
		return Response{}, err
	}
	ids, err := e.store.UserIDsByStatus(ctx, models.StatusApproved)
	if err != nil {
		return Response{}, err
	}
	report := e.deliver(ctx, ids, Response{Text: msgBroadcastPrefix + text})
	e.logger.Info().Int64("admin_id", state.UserID).Int("sent", report.Sent).Int("failed", report.Failed).Msg("broadcast finished")

	return MainMenu(fmt.Sprintf("Готово! Успешно: %d. Не доставлено: %d.", report.Sent, report.Failed), true), nil
}

func (e *Engine) listMembers(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		users, err := e.store.ListByStatus(ctx, models.StatusApproved, models.StatusPending)
		if err != nil {
			return Response{}, err
		}
		return usersList("👥 Участники (одобренные и на проверке)", users, prefixBan), nil
	})
}

func (e *Engine) listBlacklist(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		users, err := e.store.ListByStatus(ctx, models.StatusBanned)
		if err != nil {
			return Response{}, err
		}
		return usersList("🚫 Черный список", users, prefixUnban), nil
	})
}

func (e *Engine) listPending(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		users, err := e.store.ListPending(ctx)
		if err != nil {
			return Response{}, err
		}
		shown, note := truncate(users)
		return Response{
			Text:    formatUsersBlock("⏳ Заявки на проверке", shown) + note,
			Layout:  LayoutInline,
			Actions: pendingKeyboard(shown),
		}, nil
	})
}

func usersList(title string, users []models.User, action string) Response {
	shown, note := truncate(users)
	return Response{
		Text:    formatUsersBlock(title, shown) + note,
		Layout:  LayoutInline,
		Actions: usersKeyboard(shown, action),
	}
}

func truncate(users []models.User) ([]models.User, string) {
	if len(users) <= listLimit {
		return users, ""
	}
	return users[:listLimit], msgListTruncated
}

func (e *Engine) stats(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		counts, err := e.store.CountByStatus(ctx)
		if err != nil {
			return Response{}, err
		}
		var total int64
		for _, n := range counts {
			total += n
		}
		text := fmt.Sprintf("📈 Пользователи: %d\n%s: %d\n%s: %d\n%s: %d\n%s: %d", total,
			statusLabels[models.StatusApproved], counts[models.StatusApproved],
			statusLabels[models.StatusPending], counts[models.StatusPending],
			statusLabels[models.StatusRejected], counts[models.StatusRejected],
			statusLabels[models.StatusBanned], counts[models.StatusBanned],
		)
		return backMainResponse(text), nil
	})
}

func (e *Engine) export(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		if e.exporter == nil {
			return Response{Text: msgExportOff}, nil
		}
		members, err := e.store.MemberSummaries(ctx)
		if err != nil {
			return Response{}, err
		}
		path, err := e.exporter.ExportMembers(ctx, members, e.now())
		if err != nil {
			return Response{}, err
		}
		e.logger.Info().Int64("admin_id", userID).Str("file", path).Int("members", len(members)).Msg("members exported")
		return Response{Text: fmt.Sprintf("📊 Участники: %d", len(members)), Document: path}, nil
	})
}

func (e *Engine) sync(ctx context.Context, userID int64) (Response, error) {
	return e.adminOnly(ctx, userID, func() (Response, error) {
		if e.sheets == nil {
			return Response{Text: msgSyncOff}, nil
		}
		members, err := e.store.MemberSummaries(ctx)
		if err != nil {
			return Response{}, err
		}
		if err := e.sheets.SyncMembers(ctx, members); err != nil {
			return Response{}, err
		}
		return backMainResponse(msgSynced), nil
	})
}
