package reminder

import (
	"context"
	"sync"
	"time"

	"RemindHub/internal/model"
)

// ContentHandler 模块类型专属的内容插件
// 按活动状态（相对 now）决定是否追加行
type ContentHandler interface {
	Rows(ctx context.Context, courses CourseStore, event *model.Event, now int64) ([]Row, error)
}

// ContentRegistry 模块类型到内容插件的映射
// 未注册的类型不是错误，只是没有额外内容
type ContentRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ContentHandler
}

func NewContentRegistry() *ContentRegistry {
	return &ContentRegistry{handlers: make(map[string]ContentHandler)}
}

func (r *ContentRegistry) Register(moduleName string, h ContentHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[moduleName] = h
}

func (r *ContentRegistry) Lookup(moduleName string) ContentHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[moduleName]
}

var (
	defaultContents     *ContentRegistry
	defaultContentsOnce sync.Once
)

// DefaultContents 内置插件集合
func DefaultContents() *ContentRegistry {
	defaultContentsOnce.Do(func() {
		defaultContents = NewContentRegistry()
		defaultContents.Register("quiz", quizContent{})
		defaultContents.Register("assign", assignContent{})
	})
	return defaultContents
}

// quizContent 测验：开考后补充说明，有关闭时间时追加截止行
type quizContent struct{}

func (quizContent) Rows(ctx context.Context, courses CourseStore, event *model.Event, now int64) ([]Row, error) {
	quiz, err := courses.Quiz(ctx, event.Instance)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, nil
	}

	var rows []Row
	// 只有已开放的测验才提示考生抓紧
	if quiz.TimeOpen > 0 && quiz.TimeOpen <= now {
		rows = append(rows, Row{Label: "Note", Value: "This quiz is already open."})
	}
	if quiz.TimeClose > 0 {
		rows = append(rows, Row{Label: "Closes", Value: formatWhen(quiz.TimeClose, 0, "UTC")})
	}
	if quiz.TimeLimit > 0 {
		rows = append(rows, Row{Label: "Time limit", Value: (time.Duration(quiz.TimeLimit) * time.Second).String()})
	}
	return rows, nil
}

// assignContent 作业：有最终截止日期时追加 cutoff 行
type assignContent struct{}

func (assignContent) Rows(ctx context.Context, courses CourseStore, event *model.Event, now int64) ([]Row, error) {
	assignment, err := courses.Assignment(ctx, event.Instance)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}

	var rows []Row
	if assignment.AllowSubmissionsFromDate > 0 && assignment.AllowSubmissionsFromDate <= now {
		rows = append(rows, Row{Label: "Note", Value: "Submissions are already open."})
	}
	if assignment.CutoffDate > 0 {
		rows = append(rows, Row{Label: "Cut-off", Value: formatWhen(assignment.CutoffDate, 0, "UTC")})
	}
	return rows, nil
}
