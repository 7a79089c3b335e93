package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"RemindHub/internal/model"
	"RemindHub/internal/reminder"
	"RemindHub/storage/database"
)

// EventRepo 日历事件的只读仓库
type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo() *EventRepo {
	return &EventRepo{db: database.DB()}
}

// EventsByTimePredicate 一条查询覆盖所有提前量：
// timestart 在窗口之后，且任一 lead 回推后落在窗口内
func (r *EventRepo) EventsByTimePredicate(ctx context.Context, pred reminder.TimePredicate) ([]model.Event, error) {
	if len(pred.Leads) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(pred.Leads))
	args := make([]interface{}, 0, len(pred.Leads)*3)
	for _, lead := range pred.Leads {
		conds = append(conds, "(time_start - ? BETWEEN ? AND ?)")
		args = append(args, lead, pred.WindowStart, pred.WindowEnd)
	}

	q := r.db.WithContext(ctx).
		Where("time_start > ?", pred.WindowEnd).
		Where(strings.Join(conds, " OR "), args...)

	if pred.OnlyVisible {
		q = q.Where("visible = ?", true)
	}

	var events []model.Event
	if err := q.Order("time_start").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepo) Event(ctx context.Context, id int64) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepo) DueOrCloseBetween(ctx context.Context, from, to int64, onlyVisible bool) ([]model.Event, error) {
	q := r.db.WithContext(ctx).
		Where("type IN ?", []string{model.EventTypeDue, model.EventTypeClose}).
		Where("time_start >= ? AND time_start < ?", from, to)

	if onlyVisible {
		q = q.Where("visible = ?", true)
	}

	var events []model.Event
	if err := q.Order("time_start").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
