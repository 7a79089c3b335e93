package reminder

import (
	"context"
	"testing"

	"RemindHub/internal/model"
)

func dispatchFixture(transport *fakeTransport) (*Dispatcher, *ReminderRef) {
	renderer := NewRenderer(&fakeCourseStore{}, NewContentRegistry())
	d := NewDispatcher(transport, renderer, sequentialIDs())

	event := &model.Event{ID: 1, Name: "Exam", Type: model.EventTypeSite, TimeStart: 1_700_000_000}
	ref := &ReminderRef{
		Template: &Template{Subject: "[Reminder] Exam", EventID: 1, EventName: "Exam"},
		Event:    event,
		Recipients: []model.User{
			testUser(1, "a@example.org"),
			testUser(2, "b@example.org"),
			testUser(3, "c@example.org"),
		},
	}
	return d, ref
}

func TestDispatchAllRecipients(t *testing.T) {
	transport := &fakeTransport{}
	d, ref := dispatchFixture(transport)

	out := d.Dispatch(context.Background(), ref, renderConfig())
	if out.Sent != 3 || out.Failed != 0 {
		t.Fatalf("outcome = %+v, want 3 sent", out)
	}
	if len(transport.sent) != 3 {
		t.Fatalf("transport saw %d messages, want 3", len(transport.sent))
	}
}

func TestDispatchIsolatesPerRecipientFailure(t *testing.T) {
	transport := &fakeTransport{failTo: map[string]bool{"b@example.org": true}}
	d, ref := dispatchFixture(transport)

	out := d.Dispatch(context.Background(), ref, renderConfig())
	if out.Sent != 2 || out.Failed != 1 {
		t.Fatalf("outcome = %+v, want 2 sent / 1 failed", out)
	}
	if transport.sentTo("a@example.org") != 1 || transport.sentTo("c@example.org") != 1 {
		t.Fatal("failure blocked delivery to remaining recipients")
	}
}

func TestDispatchSkipsEmptyAddresses(t *testing.T) {
	transport := &fakeTransport{}
	d, ref := dispatchFixture(transport)
	ref.Recipients[1].Email = ""

	out := d.Dispatch(context.Background(), ref, renderConfig())
	if out.Sent != 2 || out.Failed != 0 {
		t.Fatalf("outcome = %+v, want 2 sent / 0 failed", out)
	}
}

func TestDispatchReleasesTemplate(t *testing.T) {
	transport := &fakeTransport{}
	d, ref := dispatchFixture(transport)

	d.Dispatch(context.Background(), ref, renderConfig())
	if ref.Template != nil || ref.Recipients != nil {
		t.Fatal("template and recipients not released after dispatch")
	}
}

func TestDispatchUniqueMessageIDs(t *testing.T) {
	transport := &fakeTransport{}
	d, ref := dispatchFixture(transport)

	d.Dispatch(context.Background(), ref, renderConfig())

	seen := make(map[string]bool)
	for _, msg := range transport.sent {
		if seen[msg.MessageID] {
			t.Fatalf("duplicate message ID %q", msg.MessageID)
		}
		seen[msg.MessageID] = true
	}
}
