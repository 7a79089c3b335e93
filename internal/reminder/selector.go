package reminder

import (
	"context"
	"fmt"

	"RemindHub/internal/model"
)

// BuildPredicate 汇总所有类别启用的提前量，拼成一次查询的谓词
// 避免按类别发 N 条查询
func BuildPredicate(w ScanWindow, cfg Config) TimePredicate {
	seen := make(map[int64]bool)
	leads := make([]int64, 0, 8)

	add := func(lead int64) {
		if lead <= 0 || seen[lead] {
			return
		}
		seen[lead] = true
		leads = append(leads, lead)
	}

	for _, tc := range cfg.Tiers {
		if tc.Seven {
			add(7 * daySeconds)
		}
		if tc.Three {
			add(3 * daySeconds)
		}
		if tc.One {
			add(1 * daySeconds)
		}
		add(tc.CustomSeconds)
	}

	return TimePredicate{
		WindowStart: w.Start,
		WindowEnd:   w.End,
		Leads:       leads,
		OnlyVisible: cfg.OnlyVisible,
	}
}

// SelectEvents 取出本窗口的候选事件
// 只返回 timestart 仍在窗口终点之后的事件
func SelectEvents(ctx context.Context, store EventStore, w ScanWindow, cfg Config) ([]model.Event, error) {
	pred := BuildPredicate(w, cfg)
	if len(pred.Leads) == 0 {
		return nil, nil
	}

	events, err := store.EventsByTimePredicate(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("failed to select events: %w", err)
	}
	return events, nil
}
