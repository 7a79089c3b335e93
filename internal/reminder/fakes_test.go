package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"RemindHub/internal/model"
)

// 全内存实现的协作方，行为对齐真实仓储的语义

type fakeEventStore struct {
	events []model.Event

	lastPred *TimePredicate
}

func (s *fakeEventStore) EventsByTimePredicate(ctx context.Context, pred TimePredicate) ([]model.Event, error) {
	s.lastPred = &pred

	var out []model.Event
	for _, e := range s.events {
		if e.TimeStart <= pred.WindowEnd {
			continue
		}
		if pred.OnlyVisible && !e.Visible {
			continue
		}
		for _, lead := range pred.Leads {
			at := e.TimeStart - lead
			if at >= pred.WindowStart && at <= pred.WindowEnd {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeEventStore) Event(ctx context.Context, id int64) (*model.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			e := s.events[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (s *fakeEventStore) DueOrCloseBetween(ctx context.Context, from, to int64, onlyVisible bool) ([]model.Event, error) {
	var out []model.Event
	for _, e := range s.events {
		if e.Type != model.EventTypeDue && e.Type != model.EventTypeClose {
			continue
		}
		if e.TimeStart < from || e.TimeStart >= to {
			continue
		}
		if onlyVisible && !e.Visible {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeDirectory struct {
	confirmed []model.User
	users     map[int64]model.User

	// courseID -> 持有收件角色的账户
	roleUsers    map[int64][]model.User
	groupRecords map[int64]model.Group
	groups       map[int64][]model.User

	// moduleID -> userID -> 被可用性规则排除
	unavailable map[int64]map[int64]bool
	// courseID -> userID -> 有打分能力
	graders map[int64]map[int64]bool
	// moduleID -> userID -> 已完成
	completed map[int64]map[int64]bool
}

func (d *fakeDirectory) ConfirmedUsers(ctx context.Context) ([]model.User, error) {
	return d.confirmed, nil
}

func (d *fakeDirectory) User(ctx context.Context, id int64) (*model.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (d *fakeDirectory) RoleUsers(ctx context.Context, roleIDs []int64, courseID int64, activeOnly bool) ([]model.User, error) {
	return d.roleUsers[courseID], nil
}

func (d *fakeDirectory) Group(ctx context.Context, id int64) (*model.Group, error) {
	g, ok := d.groupRecords[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (d *fakeDirectory) GroupMembers(ctx context.Context, groupID int64) ([]model.User, error) {
	return d.groups[groupID], nil
}

func (d *fakeDirectory) FilterByAvailability(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error) {
	excluded := d.unavailable[courseModuleID]
	if excluded == nil {
		return users, nil
	}
	var out []model.User
	for _, u := range users {
		if !excluded[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) FilterGraders(ctx context.Context, users []model.User, courseID int64) ([]model.User, error) {
	var out []model.User
	for _, u := range users {
		if d.graders[courseID][u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (d *fakeDirectory) FilterUnfinished(ctx context.Context, users []model.User, courseModuleID int64) ([]model.User, error) {
	var out []model.User
	for _, u := range users {
		if !d.completed[courseModuleID][u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

type moduleKey struct {
	courseID   int64
	moduleName string
	instance   int64
}

type fakeCourseStore struct {
	courses    map[int64]model.Course
	categories map[int64]model.CourseCategory
	// categoryID -> 直属及子孙分类下的课程
	byCategory map[int64][]model.Course

	modules     map[moduleKey]model.CourseModule
	quizzes     map[int64]model.Quiz
	assignments map[int64]model.Assignment

	// 注入课程查询故障
	courseErr error
}

func (s *fakeCourseStore) Course(ctx context.Context, id int64) (*model.Course, error) {
	if s.courseErr != nil {
		return nil, s.courseErr
	}
	c, ok := s.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeCourseStore) Category(ctx context.Context, id int64) (*model.CourseCategory, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *fakeCourseStore) CoursesInCategory(ctx context.Context, categoryID int64, recursive bool) ([]model.Course, error) {
	return s.byCategory[categoryID], nil
}

func (s *fakeCourseStore) Module(ctx context.Context, courseID int64, moduleName string, instance int64) (*model.CourseModule, error) {
	m, ok := s.modules[moduleKey{courseID, moduleName, instance}]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *fakeCourseStore) Quiz(ctx context.Context, instance int64) (*model.Quiz, error) {
	q, ok := s.quizzes[instance]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (s *fakeCourseStore) Assignment(ctx context.Context, instance int64) (*model.Assignment, error) {
	a, ok := s.assignments[instance]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

type fakeOverrideStore struct {
	overrides map[int64]model.CourseOverride
}

func (s *fakeOverrideStore) Override(ctx context.Context, courseID int64) (*model.CourseOverride, error) {
	o, ok := s.overrides[courseID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

type fakeScanLog struct {
	records []model.ScanLogRecord
}

func (l *fakeScanLog) Last(ctx context.Context) (*model.ScanLogRecord, error) {
	if len(l.records) == 0 {
		return nil, nil
	}
	rec := l.records[len(l.records)-1]
	return &rec, nil
}

func (l *fakeScanLog) Append(ctx context.Context, rec *model.ScanLogRecord) error {
	rec.ID = int64(len(l.records) + 1)
	l.records = append(l.records, *rec)
	return nil
}

func (l *fakeScanLog) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	kept := l.records[:0]
	var removed int64
	for _, rec := range l.records {
		if rec.Time < cutoff {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	l.records = kept
	return removed, nil
}

type fakeMarks struct {
	marked     map[int64]int64
	insertErr  error
	existsErr  error
	insertions int
}

func newFakeMarks() *fakeMarks {
	return &fakeMarks{marked: make(map[int64]int64)}
}

func (m *fakeMarks) Exists(ctx context.Context, eventID int64) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.marked[eventID]
	return ok, nil
}

func (m *fakeMarks) Insert(ctx context.Context, eventID, sendTime int64) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertions++
	m.marked[eventID] = sendTime
	return nil
}

type fakeTransport struct {
	mu sync.Mutex

	sent    []Message
	failTo  map[string]bool
	failAll bool
}

func (t *fakeTransport) Send(ctx context.Context, msg Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failAll || t.failTo[msg.To] {
		return errors.New("transport unavailable")
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *fakeTransport) sentTo(addr string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, msg := range t.sent {
		if msg.To == addr {
			n++
		}
	}
	return n
}

// sequentialIDs 可预测的消息 ID 生成器
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("msg-%d", n)
	}
}

func testUser(id int64, email string) model.User {
	return model.User{
		ID:        id,
		Username:  fmt.Sprintf("user%d", id),
		Email:     email,
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", id),
		Timezone:  "UTC",
		Confirmed: true,
	}
}
