package reminder

import (
	"context"
	"strings"
	"testing"

	"RemindHub/internal/model"
)

func renderConfig() Config {
	return Config{
		SubjectPrefix:  "Reminder",
		NoReplyAddress: "noreply@example.org",
		SiteBaseURL:    "https://learn.example.org",
	}
}

func TestBuildSubject(t *testing.T) {
	event := &model.Event{Name: "Final exam"}
	course := &model.Course{ShortName: "CS101"}

	tests := []struct {
		name   string
		change ChangeType
		course *model.Course
		want   string
	}{
		{"plain", ChangeNone, nil, "[Reminder] Final exam"},
		{"with course", ChangeNone, course, "[Reminder] (CS101) Final exam"},
		{"with change", ChangeUpdated, course, "[Reminder] [UPDATED] (CS101) Final exam"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSubject(event, renderConfig(), tt.change, tt.course)
			if got != tt.want {
				t.Fatalf("subject = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeaderFor(t *testing.T) {
	tests := []struct {
		name   string
		change ChangeType
		tier   *Tier
		want   string
	}{
		{"overdue", ChangeOverdue, nil, "This activity is now overdue."},
		{"removed", ChangeRemoved, nil, "A calendar event has been removed."},
		{"one day", ChangeNone, &Tier{Seconds: daySeconds, Days: 1}, "[1 day to go]"},
		{"three days", ChangeNone, &Tier{Seconds: 3 * daySeconds, Days: 3}, "[3 days to go]"},
		{"custom hours", ChangeNone, &Tier{Seconds: 6 * 3600, Days: 0.25, IsCustom: true}, "[6 hour(s) to go]"},
		{"no tier", ChangeNone, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := headerFor(tt.change, tt.tier); got != tt.want {
				t.Fatalf("header = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatWhenTimezones(t *testing.T) {
	// 2023-11-14 22:13:20 UTC
	start := int64(1_700_000_000)

	utc := formatWhen(start, 0, "UTC")
	if !strings.Contains(utc, "10:13 PM") {
		t.Fatalf("UTC rendering = %q, want 10:13 PM", utc)
	}

	ny := formatWhen(start, 0, "America/New_York")
	if !strings.Contains(ny, "5:13 PM") {
		t.Fatalf("New York rendering = %q, want 5:13 PM", ny)
	}

	// 未知时区回落 UTC
	fallback := formatWhen(start, 0, "Not/AZone")
	if fallback != utc {
		t.Fatalf("fallback = %q, want UTC rendering %q", fallback, utc)
	}
}

func TestFormatWhenDurationRange(t *testing.T) {
	start := int64(1_700_000_000)

	sameDay := formatWhen(start, 1800, "UTC")
	if !strings.Contains(sameDay, " - 10:43 PM") {
		t.Fatalf("same-day range = %q, want short end time", sameDay)
	}

	crossDay := formatWhen(start, 2*3600, "UTC")
	if !strings.Contains(crossDay, "Wednesday") {
		t.Fatalf("cross-day range = %q, want full end date", crossDay)
	}
}

func TestBuildTemplateRows(t *testing.T) {
	courses := &fakeCourseStore{courses: map[int64]model.Course{
		7: {ID: 7, ShortName: "CS101", FullName: "Intro to CS", Visible: true},
	}}
	r := NewRenderer(courses, NewContentRegistry())

	event := &model.Event{
		ID:          11,
		Name:        "Final exam",
		Description: "Bring a pencil",
		Location:    "Hall B",
		Type:        model.EventTypeCourse,
		CourseID:    7,
		TimeStart:   1_700_000_000,
	}

	tpl, err := r.BuildTemplate(context.Background(), event, renderConfig(), ChangeNone, &Tier{Seconds: daySeconds, Days: 1}, 1_699_900_000)
	if err != nil {
		t.Fatalf("BuildTemplate error: %v", err)
	}

	if tpl.Subject != "[Reminder] (CS101) Final exam" {
		t.Fatalf("subject = %q", tpl.Subject)
	}
	if tpl.Header != "[1 day to go]" {
		t.Fatalf("header = %q", tpl.Header)
	}
	if tpl.Footer != "https://learn.example.org/calendar/view?event=11" {
		t.Fatalf("footer = %q", tpl.Footer)
	}

	labels := make([]string, len(tpl.HTMLRows))
	for i, row := range tpl.HTMLRows {
		labels[i] = row.Label
	}
	want := []string{"When", "Location", "Course", "Description"}
	if len(labels) != len(want) {
		t.Fatalf("rows = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("rows = %v, want %v", labels, want)
		}
	}
	if !tpl.HTMLRows[0].IsWhen {
		t.Fatal("first row not marked as when row")
	}
}

func TestBuildTemplateQuizContent(t *testing.T) {
	courses := &fakeCourseStore{
		quizzes: map[int64]model.Quiz{9: {ID: 9, TimeClose: 1_700_100_000, TimeLimit: 3600}},
	}
	r := NewRenderer(courses, nil)

	event := &model.Event{
		ID:        12,
		Name:      "Quiz closes",
		Type:      model.EventTypeClose,
		ModuleName: "quiz",
		Instance:   9,
		TimeStart:  1_700_100_000,
	}

	tpl, err := r.BuildTemplate(context.Background(), event, renderConfig(), ChangeNone, nil, 1_699_900_000)
	if err != nil {
		t.Fatalf("BuildTemplate error: %v", err)
	}

	var hasCloses, hasLimit bool
	for _, row := range tpl.HTMLRows {
		switch row.Label {
		case "Closes":
			hasCloses = true
		case "Time limit":
			hasLimit = true
		}
	}
	if !hasCloses || !hasLimit {
		t.Fatalf("quiz rows missing, got %+v", tpl.HTMLRows)
	}
}

func TestBuildTemplateQuizOpenNoteFollowsClock(t *testing.T) {
	courses := &fakeCourseStore{
		quizzes: map[int64]model.Quiz{9: {ID: 9, TimeOpen: 1_700_000_000, TimeClose: 1_700_100_000}},
	}
	r := NewRenderer(courses, nil)
	event := &model.Event{
		ID:         12,
		Name:       "Quiz closes",
		Type:       model.EventTypeClose,
		ModuleName: "quiz",
		Instance:   9,
		TimeStart:  1_700_100_000,
	}

	tests := []struct {
		name     string
		now      int64
		wantNote bool
	}{
		{"before open", 1_699_999_999, false},
		{"after open", 1_700_000_001, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := r.BuildTemplate(context.Background(), event, renderConfig(), ChangeNone, nil, tt.now)
			if err != nil {
				t.Fatalf("BuildTemplate error: %v", err)
			}
			var hasNote bool
			for _, row := range tpl.HTMLRows {
				if row.Label == "Note" {
					hasNote = true
				}
			}
			if hasNote != tt.wantNote {
				t.Fatalf("note row = %v at clock %d, want %v", hasNote, tt.now, tt.wantNote)
			}
		})
	}
}

func TestRenderForRecipientTimezoneVariants(t *testing.T) {
	r := NewRenderer(&fakeCourseStore{}, NewContentRegistry())
	event := &model.Event{ID: 11, Name: "Final exam", Type: model.EventTypeCourse, TimeStart: 1_700_000_000}

	tpl, err := r.BuildTemplate(context.Background(), event, renderConfig(), ChangeNone, &Tier{Seconds: daySeconds, Days: 1}, 1_699_900_000)
	if err != nil {
		t.Fatalf("BuildTemplate error: %v", err)
	}

	utcUser := testUser(1, "a@example.org")
	nyUser := testUser(2, "b@example.org")
	nyUser.Timezone = "America/New_York"

	msgUTC := r.RenderForRecipient(tpl, event, &utcUser, renderConfig(), "m-1")
	msgNY := r.RenderForRecipient(tpl, event, &nyUser, renderConfig(), "m-2")

	if !strings.Contains(msgUTC.PlainBody, "10:13 PM") {
		t.Fatalf("UTC body missing local time: %q", msgUTC.PlainBody)
	}
	if !strings.Contains(msgNY.PlainBody, "5:13 PM") {
		t.Fatalf("New York body missing local time: %q", msgNY.PlainBody)
	}

	if msgUTC.Subject != msgNY.Subject {
		t.Fatal("subject should not vary per recipient")
	}
	if msgUTC.MessageID == msgNY.MessageID {
		t.Fatal("message IDs must be unique per recipient")
	}
	if msgUTC.From != "noreply@example.org" {
		t.Fatalf("from = %q", msgUTC.From)
	}

	var hasEventHeader bool
	for _, h := range msgUTC.Headers {
		if h == "X-Event-Id: 11" {
			hasEventHeader = true
		}
	}
	if !hasEventHeader {
		t.Fatalf("headers = %v, want X-Event-Id", msgUTC.Headers)
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	r := NewRenderer(&fakeCourseStore{}, NewContentRegistry())
	event := &model.Event{
		ID:        13,
		Name:      "<script>alert(1)</script>",
		Type:      model.EventTypeSite,
		TimeStart: 1_700_000_000,
	}

	tpl, err := r.BuildTemplate(context.Background(), event, renderConfig(), ChangeNone, nil, 1_699_900_000)
	if err != nil {
		t.Fatalf("BuildTemplate error: %v", err)
	}

	user := testUser(1, "a@example.org")
	msg := r.RenderForRecipient(tpl, event, &user, renderConfig(), "m-1")
	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Fatal("event name not escaped in HTML body")
	}
}
