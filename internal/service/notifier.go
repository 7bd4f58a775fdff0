package service

import (
	"context"
	"fmt"

	"fitbot/internal/domain"
	"fitbot/internal/metrics"
)

// DeliveryReport итог рассылки
type DeliveryReport struct {
	Sent   int
	Failed int
}

// deliver отправляет сообщение каждому получателю независимо. Ошибка одного
// получателя не прерывает рассылку остальным.
func (e *Engine) deliver(ctx context.Context, userIDs []int64, resp Response) DeliveryReport {
	var report DeliveryReport
	for _, id := range userIDs {
		if err := e.notify(ctx, id, resp); err != nil {
			report.Failed++
			continue
		}
		report.Sent++
	}
	return report
}

func (e *Engine) notify(ctx context.Context, userID int64, resp Response) error {
	if e.notifier == nil {
		return fmt.Errorf("%w: no notifier configured", domain.ErrDelivery)
	}
	if err := e.notifier.Notify(ctx, userID, resp); err != nil {
		metrics.IncDelivery(false)
		err = fmt.Errorf("%w to %d: %v", domain.ErrDelivery, userID, err)
		e.logger.Warn().Err(err).Int64("recipient", userID).Msg("notify")
		return err
	}
	metrics.IncDelivery(true)
	return nil
}
