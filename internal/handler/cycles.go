package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/internal/schedule"
	"RemindHub/pkg/response"
)

// TriggerReminderCycle 手动触发一个提醒扫描周期
// POST /v1/cycles/reminder
// 与 cron 周期互斥，撞上时返回 CYCLE_ALREADY_ACTIVE
func TriggerReminderCycle(ctx context.Context, c *app.RequestContext) {
	if err := schedule.GetScheduler().RunReminderCycle(ctx); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"status": "completed",
	})
}

// TriggerOverdueCycle 手动触发一次逾期补发扫描
// POST /v1/cycles/overdue
func TriggerOverdueCycle(ctx context.Context, c *app.RequestContext) {
	if err := schedule.GetScheduler().RunOverdueCycle(ctx); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"status": "completed",
	})
}
