package reminder

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"RemindHub/internal/model"
	"RemindHub/pkg/logger"
	"RemindHub/pkg/metrics"
)

// Engine 提醒核心，把窗口、档位、收件人、渲染与投递串成一个周期
// 单周期内严格串行，依赖外部调度器保证周期不重叠
type Engine struct {
	events  EventStore
	scanLog ScanLog
	marks   OverdueMarks

	resolver   *Resolver
	renderer   *Renderer
	dispatcher *Dispatcher

	// 可注入的时钟，测试用
	now func() int64
}

// EngineDeps Engine 的全部协作方
type EngineDeps struct {
	Events    EventStore
	Directory Directory
	Courses   CourseStore
	Overrides OverrideStore
	ScanLog   ScanLog
	Marks     OverdueMarks
	Transport Transport

	// 消息 ID 生成器
	NewID func() string
	// 为空时使用系统时钟
	Now func() int64
}

func NewEngine(deps EngineDeps) *Engine {
	now := deps.Now
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}

	renderer := NewRenderer(deps.Courses, nil)
	return &Engine{
		events:     deps.Events,
		scanLog:    deps.ScanLog,
		marks:      deps.Marks,
		resolver:   NewResolver(deps.Directory, deps.Courses, deps.Overrides),
		renderer:   renderer,
		dispatcher: NewDispatcher(deps.Transport, renderer, deps.NewID),
		now:        now,
	}
}

// RunCycle 执行一个提醒扫描周期
// 禁用时是幂等 no-op；全部投递失败时不提交窗口，下次重扫同一起点
func (e *Engine) RunCycle(ctx context.Context, cfg Config) (CycleOutcome, error) {
	var outcome CycleOutcome

	if !cfg.Enabled {
		logger.Logger.Info("Reminders disabled, skipping cycle")
		return outcome, nil
	}

	started := time.Now()
	now := e.now()

	w, err := NextWindow(ctx, e.scanLog, now, cfg)
	if errors.Is(err, ErrWindowNotElapsed) {
		logger.Logger.Warn("Clock has not passed the scan watermark, skipping cycle",
			zap.Int64("now", now),
		)
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}

	events, err := SelectEvents(ctx, e.events, w, cfg)
	if err != nil {
		return outcome, err
	}
	outcome.EventsSelected = len(events)

	logger.Logger.Info("Reminder cycle started",
		zap.Int64("window_start", w.Start),
		zap.Int64("window_end", w.End),
		zap.Int("candidate_events", len(events)),
	)

	for i := range events {
		event := &events[i]

		dispatched, err := e.processEvent(ctx, event, w, cfg)
		if err != nil {
			// 单个事件的解析/渲染失败不拖垮整个周期
			outcome.EventsSkipped++
			logger.Logger.Error("Failed to process event, skipping",
				zap.Int64("event_id", event.ID),
				zap.String("type", event.Type),
				zap.Error(err),
			)
			continue
		}
		if dispatched == nil {
			outcome.EventsSkipped++
			continue
		}

		outcome.Sent += dispatched.Sent
		outcome.Failed += dispatched.Failed
		if dispatched.Sent > 0 {
			outcome.EventsSent++
		}
	}

	if err := e.commit(ctx, w, outcome); err != nil {
		return outcome, err
	}

	e.recordCycleMetrics(ctx, "reminder", outcome, time.Since(started))

	logger.Logger.Info("Reminder cycle finished",
		zap.Int("events_sent", outcome.EventsSent),
		zap.Int("events_skipped", outcome.EventsSkipped),
		zap.Int("sent", outcome.Sent),
		zap.Int("failed", outcome.Failed),
	)
	return outcome, nil
}

// processEvent 单事件流水线：档位判定 -> 收件人解析 -> 渲染 -> 投递
// 返回 nil 表示本周期跳过该事件
func (e *Engine) processEvent(ctx context.Context, event *model.Event, w ScanWindow, cfg Config) (*DispatchOutcome, error) {
	if skipByActivityMode(event, cfg.ActivitySendMode) {
		return nil, nil
	}

	tc, ok := cfg.TierFor(event.Type)
	if !ok {
		if event.ModuleName != "" {
			// 未识别但带模块名的事件按活动档位处理
			tc, _ = cfg.TierFor(model.EventTypeDue)
		} else {
			logger.Logger.Debug("No lead-time config for event category",
				zap.Int64("event_id", event.ID),
				zap.String("type", event.Type),
			)
			return nil, nil
		}
	}
	if !tc.HasAnyLead() {
		return nil, nil
	}

	tier := ResolveTier(event, w, tc)
	if tier == nil {
		return nil, nil
	}

	recipients, err := e.resolver.Resolve(ctx, event, cfg, ModeNormal)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, nil
	}

	tpl, err := e.renderer.BuildTemplate(ctx, event, cfg, ChangeNone, tier, e.now())
	if err != nil {
		return nil, err
	}

	ref := &ReminderRef{Template: tpl, Event: event, Recipients: recipients}
	out := e.dispatcher.Dispatch(ctx, ref, cfg)
	return &out, nil
}

// commit 决定本周期是否推进窗口
func (e *Engine) commit(ctx context.Context, w ScanWindow, outcome CycleOutcome) error {
	switch {
	case outcome.HadSuccess():
		return CommitWindow(ctx, e.scanLog, w, model.ScanResultSent)
	case outcome.Failed == 0:
		// 没有任何可发事件也算确认，推进窗口
		return CommitWindow(ctx, e.scanLog, w, model.ScanResultNoEvents)
	default:
		// 全军覆没：不提交，下个周期重试同一窗口
		logger.Logger.Warn("All sends failed, window not committed",
			zap.Int64("window_start", w.Start),
			zap.Int64("window_end", w.End),
			zap.Int("failed", outcome.Failed),
		)
		return nil
	}
}

// skipByActivityMode 活动事件的开/关限制
// 只约束 open/close，截止类事件始终放行
func skipByActivityMode(event *model.Event, mode string) bool {
	switch event.Type {
	case model.EventTypeOpen:
		return mode == "closings"
	case model.EventTypeClose:
		return mode == "openings"
	}
	return false
}

func (e *Engine) recordCycleMetrics(ctx context.Context, kind string, outcome CycleOutcome, elapsed time.Duration) {
	m := metrics.GetMetrics()
	if m == nil {
		return
	}

	result := model.ScanResultSent
	if !outcome.HadSuccess() {
		result = model.ScanResultNoEvents
	}
	m.RecordCycle(ctx, kind, result, elapsed.Seconds(), int64(outcome.EventsSelected))
	m.RecordDispatch(ctx, kind, int64(outcome.Sent), int64(outcome.Failed))
}

// Resolver 暴露给变更广播使用
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Renderer 暴露给变更广播使用
func (e *Engine) Renderer() *Renderer {
	return e.renderer
}
