package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/internal/reminder"
	"RemindHub/internal/schedule"
	"RemindHub/pkg/errors"
	"RemindHub/pkg/response"
)

type broadcastRequest struct {
	ChangeType string `json:"change_type"`
}

// BroadcastEventChange 日历事件创建/修改/删除后的即时通知
// POST /v1/events/:id/broadcast
// 对应开关（NOTIFY_ON_*）关闭时是静默 no-op
func BroadcastEventChange(ctx context.Context, c *app.RequestContext) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || eventID <= 0 {
		response.Error(ctx, c, errors.EventNotFound)
		return
	}

	var req broadcastRequest
	if err := c.BindJSON(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	change, err := reminder.ParseChangeType(req.ChangeType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	engine := schedule.GetScheduler().Engine()
	outcome, err := engine.BroadcastChange(ctx, eventID, change, reminder.Snapshot())
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"sent":   outcome.Sent,
		"failed": outcome.Failed,
	})
}
