package reminder

import (
	"context"

	"go.uber.org/zap"

	"RemindHub/pkg/errors"
	"RemindHub/pkg/logger"
)

// BroadcastChange 日历事件创建/修改/删除时的即时通知
// 不走扫描窗口，也不影响扫描日志
func (e *Engine) BroadcastChange(ctx context.Context, eventID int64, change ChangeType, cfg Config) (DispatchOutcome, error) {
	var outcome DispatchOutcome

	if !cfg.Enabled {
		return outcome, nil
	}
	if !changeEnabled(change, cfg) {
		return outcome, nil
	}

	event, err := e.events.Event(ctx, eventID)
	if err != nil {
		return outcome, err
	}
	if event == nil {
		return outcome, errors.EventNotFound
	}

	now := e.now()
	// 已经开始的事件不再广播变更
	if event.TimeStart <= now {
		return outcome, errors.EventExpired
	}

	recipients, err := e.resolver.Resolve(ctx, event, cfg, ModeNormal)
	if err != nil {
		return outcome, err
	}
	if len(recipients) == 0 {
		return outcome, nil
	}

	// 距开始的整天数作为提示档位
	aheadDays := (event.TimeStart - now) / daySeconds
	tier := &Tier{Seconds: aheadDays * daySeconds, Days: float64(aheadDays)}
	if aheadDays <= 0 {
		tier = nil
	}

	tpl, err := e.renderer.BuildTemplate(ctx, event, cfg, change, tier, now)
	if err != nil {
		return outcome, err
	}

	ref := &ReminderRef{Template: tpl, Event: event, Recipients: recipients, Change: change}
	outcome = e.dispatcher.Dispatch(ctx, ref, cfg)

	logger.Logger.Info("Calendar change broadcast",
		zap.Int64("event_id", eventID),
		zap.String("change", string(change)),
		zap.Int("sent", outcome.Sent),
		zap.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

func changeEnabled(change ChangeType, cfg Config) bool {
	switch change {
	case ChangeAdded:
		return cfg.NotifyOnCreated
	case ChangeUpdated:
		return cfg.NotifyOnUpdated
	case ChangeRemoved:
		return cfg.NotifyOnRemoved
	}
	return false
}

// ParseChangeType 管理接口的变更类型解析
func ParseChangeType(s string) (ChangeType, error) {
	switch s {
	case "created", "added":
		return ChangeAdded, nil
	case "updated":
		return ChangeUpdated, nil
	case "removed", "deleted":
		return ChangeRemoved, nil
	}
	return ChangeNone, errors.InvalidChangeType
}
