package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/config"
	"RemindHub/pkg/response"
)

// Healthz 健康检查
// GET /healthz
func Healthz(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, map[string]interface{}{
		"status":      "ok",
		"service":     config.Cfg.ServiceName,
		"environment": config.Cfg.Environment,
	})
}
