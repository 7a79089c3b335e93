package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"RemindHub/internal/handler"
	"RemindHub/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	h.GET("/healthz", handler.Healthz)

	v1 := h.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/token", handler.IssueToken)
	}

	// 管理接口，全部需要鉴权
	admin := v1.Group("")
	admin.Use(middleware.AuthMiddleware())
	{
		cycles := admin.Group("/cycles")
		{
			cycles.POST("/reminder", handler.TriggerReminderCycle)
			cycles.POST("/overdue", handler.TriggerOverdueCycle)
		}

		courses := admin.Group("/courses")
		{
			courses.GET("/overrides", handler.ListCourseOverrides)
			courses.GET("/:id/override", handler.GetCourseOverride)
			courses.PUT("/:id/override", handler.PutCourseOverride)
		}

		events := admin.Group("/events")
		{
			events.POST("/:id/broadcast", handler.BroadcastEventChange)
		}

		admin.GET("/scan-log", handler.ListScanLog)
	}
}
