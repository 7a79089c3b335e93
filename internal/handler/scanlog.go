package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/internal/repository"
	"RemindHub/pkg/response"
)

// ListScanLog 最近的扫描记录，用于排查窗口推进
// GET /v1/scan-log?limit=50
func ListScanLog(ctx context.Context, c *app.RequestContext) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	recs, err := repository.NewScanLogRepo().Recent(ctx, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, recs, map[string]interface{}{
		"count": len(recs),
	})
}
