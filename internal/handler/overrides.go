package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"RemindHub/internal/model"
	"RemindHub/internal/repository"
	"RemindHub/pkg/errors"
	"RemindHub/pkg/response"
)

type overridePayload struct {
	EnableCourse     *bool `json:"enable_course"`
	EnableActivities *bool `json:"enable_activities"`
	EnableGroup      *bool `json:"enable_group"`
}

// GetCourseOverride 查询课程级提醒开关
// GET /v1/courses/:id/override
// 无记录时返回默认全开
func GetCourseOverride(ctx context.Context, c *app.RequestContext) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || courseID <= 0 {
		response.Error(ctx, c, errors.InvalidCourseID)
		return
	}

	override, err := repository.NewOverrideRepo().Override(ctx, courseID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	if override == nil {
		override = &model.CourseOverride{
			CourseID:         courseID,
			EnableCourse:     true,
			EnableActivities: true,
			EnableGroup:      true,
		}
	}

	response.Success(ctx, c, override)
}

// PutCourseOverride 写课程级提醒开关
// PUT /v1/courses/:id/override
// 缺省字段保持原值（无记录时按全开起步）
func PutCourseOverride(ctx context.Context, c *app.RequestContext) {
	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || courseID <= 0 {
		response.Error(ctx, c, errors.InvalidCourseID)
		return
	}

	var payload overridePayload
	if err := c.BindJSON(&payload); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	repo := repository.NewOverrideRepo()
	override, err := repo.Override(ctx, courseID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	if override == nil {
		override = &model.CourseOverride{
			CourseID:         courseID,
			EnableCourse:     true,
			EnableActivities: true,
			EnableGroup:      true,
		}
	}

	if payload.EnableCourse != nil {
		override.EnableCourse = *payload.EnableCourse
	}
	if payload.EnableActivities != nil {
		override.EnableActivities = *payload.EnableActivities
	}
	if payload.EnableGroup != nil {
		override.EnableGroup = *payload.EnableGroup
	}

	if err := repo.Save(ctx, override); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, override)
}

// ListCourseOverrides 列出已配置的课程开关
// GET /v1/courses/overrides
func ListCourseOverrides(ctx context.Context, c *app.RequestContext) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	overrides, err := repository.NewOverrideRepo().List(ctx, limit)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, overrides, map[string]interface{}{
		"count": len(overrides),
	})
}
