package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"RemindHub/internal/model"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/metrics"
)

// RunOverdue 逾期补发扫描，与常规窗口完全独立
// 对 [now-86400, now) 内已过截止、尚无标记的 due/close 事件各补发一次，
// 尝试过全部收件人后无条件落标记，保证每个事件至多一轮补发
func (e *Engine) RunOverdue(ctx context.Context, cfg Config) (CycleOutcome, error) {
	var outcome CycleOutcome

	if !cfg.Enabled || !cfg.OverdueEnabled {
		logger.Logger.Info("Overdue scan disabled, skipping")
		return outcome, nil
	}

	started := time.Now()
	now := e.now()

	events, err := e.events.DueOrCloseBetween(ctx, now-daySeconds, now, true)
	if err != nil {
		return outcome, err
	}
	outcome.EventsSelected = len(events)

	logger.Logger.Info("Overdue scan started",
		zap.Int64("from", now-daySeconds),
		zap.Int64("to", now),
		zap.Int("candidate_events", len(events)),
	)

	for i := range events {
		event := &events[i]

		marked, err := e.marks.Exists(ctx, event.ID)
		if err != nil {
			logger.Logger.Error("Failed to check overdue marker",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
			outcome.EventsSkipped++
			continue
		}
		if marked {
			outcome.EventsSkipped++
			continue
		}

		out, err := e.processOverdueEvent(ctx, event, cfg)
		if err != nil {
			// 解析/渲染失败说明收件人根本没被尝试过，不落标记，下轮重试
			outcome.EventsSkipped++
			logger.Logger.Error("Failed to process overdue event, skipping",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}
		outcome.Sent += out.Sent
		outcome.Failed += out.Failed
		if out.Sent > 0 {
			outcome.EventsSent++
		}

		// 尝试过即落标记，个别收件人失败也不重发
		if err := e.marks.Insert(ctx, event.ID, now); err != nil {
			logger.Logger.Error("Failed to insert overdue marker",
				zap.Int64("event_id", event.ID),
				zap.Error(err),
			)
		}

		if m := metrics.GetMetrics(); m != nil {
			m.RecordOverdueNotices(ctx, event.ID, int64(out.Sent))
		}
	}

	e.recordCycleMetrics(ctx, "overdue", outcome, time.Since(started))

	logger.Logger.Info("Overdue scan finished",
		zap.Int("events_sent", outcome.EventsSent),
		zap.Int("sent", outcome.Sent),
		zap.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

// processOverdueEvent 返回 error 表示收件人未被尝试，调用方不得落标记
func (e *Engine) processOverdueEvent(ctx context.Context, event *model.Event, cfg Config) (DispatchOutcome, error) {
	recipients, err := e.resolver.Resolve(ctx, event, cfg, ModeOverdue)
	if err != nil {
		return DispatchOutcome{}, err
	}
	if len(recipients) == 0 {
		return DispatchOutcome{}, nil
	}

	tpl, err := e.renderer.BuildTemplate(ctx, event, cfg, ChangeOverdue, nil, e.now())
	if err != nil {
		return DispatchOutcome{}, err
	}

	ref := &ReminderRef{Template: tpl, Event: event, Recipients: recipients, Change: ChangeOverdue}
	return e.dispatcher.Dispatch(ctx, ref, cfg), nil
}
