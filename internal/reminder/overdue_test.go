package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"RemindHub/internal/model"
)

func overdueFixture(now int64) (*engineFixture, Config) {
	dir := &fakeDirectory{
		roleUsers: map[int64][]model.User{7: {
			testUser(1, "a@example.org"),
			testUser(2, "b@example.org"),
		}},
	}
	courses := &fakeCourseStore{
		courses: map[int64]model.Course{7: {ID: 7, ShortName: "CS101", Visible: true}},
		modules: map[moduleKey]model.CourseModule{
			{7, "assign", 5}: {ID: 50, CourseID: 7, ModuleName: "assign", Instance: 5, Visible: true},
		},
	}
	events := []model.Event{
		{ID: 1, Name: "Essay due", Type: model.EventTypeDue, ModuleName: "assign", Instance: 5, CourseID: 7, TimeStart: now - 3600, Visible: true},
	}
	f := newEngineFixture(events, dir, courses)
	return f, cycleConfig()
}

func TestRunOverdueSendsAndMarks(t *testing.T) {
	now := int64(1_700_000_000)
	f, cfg := overdueFixture(now)

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if out.EventsSent != 1 || out.Sent != 2 {
		t.Fatalf("outcome = %+v, want 1 event / 2 messages", out)
	}
	if _, ok := f.marks.marked[1]; !ok {
		t.Fatal("marker not inserted after send")
	}
	for _, msg := range f.transport.sent {
		if !strings.Contains(msg.PlainBody, "This activity is now overdue.") {
			t.Fatalf("body missing overdue banner: %q", msg.PlainBody)
		}
	}
}

func TestRunOverdueSecondScanIsIdempotent(t *testing.T) {
	now := int64(1_700_000_000)
	f, cfg := overdueFixture(now)

	if _, err := f.engine.RunOverdue(context.Background(), cfg); err != nil {
		t.Fatalf("first RunOverdue error: %v", err)
	}
	firstSent := len(f.transport.sent)

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second RunOverdue error: %v", err)
	}
	if out.Sent != 0 || len(f.transport.sent) != firstSent {
		t.Fatalf("second scan re-sent messages: %+v", out)
	}
	if f.marks.insertions != 1 {
		t.Fatalf("insertions = %d, want 1", f.marks.insertions)
	}
}

func TestRunOverdueMarksEvenWhenAllSendsFail(t *testing.T) {
	now := int64(1_700_000_000)
	f, cfg := overdueFixture(now)
	f.transport.failAll = true

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if out.Failed != 2 || out.Sent != 0 {
		t.Fatalf("outcome = %+v, want all sends failed", out)
	}
	// 尝试过即落标记，不会无限补发
	if _, ok := f.marks.marked[1]; !ok {
		t.Fatal("marker not inserted after failed attempt")
	}
}

func TestRunOverdueResolutionFailureLeavesNoMarker(t *testing.T) {
	now := int64(1_700_000_000)
	dir := &fakeDirectory{
		roleUsers: map[int64][]model.User{7: {testUser(1, "a@example.org")}},
	}
	courses := &fakeCourseStore{
		courses: map[int64]model.Course{7: {ID: 7, ShortName: "CS101", Visible: true}},
		modules: map[moduleKey]model.CourseModule{
			{7, "assign", 5}: {ID: 50, CourseID: 7, ModuleName: "assign", Instance: 5, Visible: true},
		},
		courseErr: errors.New("course store unavailable"),
	}
	events := []model.Event{
		{ID: 1, Name: "Essay due", Type: model.EventTypeDue, ModuleName: "assign", Instance: 5, CourseID: 7, TimeStart: now - 3600, Visible: true},
	}
	f := newEngineFixture(events, dir, courses)
	cfg := cycleConfig()

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if out.EventsSkipped != 1 || out.Sent != 0 {
		t.Fatalf("outcome = %+v, want event skipped without sends", out)
	}
	// 收件人没被尝试过就不能落标记，否则故障期间的事件永远收不到补发
	if f.marks.insertions != 0 {
		t.Fatalf("insertions = %d, want none after resolution failure", f.marks.insertions)
	}

	// 故障恢复后的下一轮扫描照常补发并落标记
	courses.courseErr = nil
	out, err = f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second RunOverdue error: %v", err)
	}
	if out.Sent != 1 {
		t.Fatalf("outcome = %+v, want the retried event sent", out)
	}
	if _, ok := f.marks.marked[1]; !ok {
		t.Fatal("marker not inserted after recovered attempt")
	}
}

func TestRunOverdueIgnoresEventsOutsideLookback(t *testing.T) {
	now := int64(1_700_000_000)
	f, cfg := overdueFixture(now)
	f.events.events = append(f.events.events,
		model.Event{ID: 2, Name: "Old", Type: model.EventTypeDue, ModuleName: "assign", Instance: 5, CourseID: 7, TimeStart: now - 2*daySeconds, Visible: true},
		model.Event{ID: 3, Name: "Future", Type: model.EventTypeDue, ModuleName: "assign", Instance: 5, CourseID: 7, TimeStart: now + 3600, Visible: true},
	)

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if out.EventsSelected != 1 {
		t.Fatalf("selected = %d, want only the event inside [now-1d, now)", out.EventsSelected)
	}
}

func TestRunOverdueDisabled(t *testing.T) {
	now := int64(1_700_000_000)
	f, cfg := overdueFixture(now)
	cfg.OverdueEnabled = false

	out, err := f.engine.RunOverdue(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunOverdue error: %v", err)
	}
	if out.EventsSelected != 0 || len(f.transport.sent) != 0 {
		t.Fatalf("disabled scan did work: %+v", out)
	}
}
