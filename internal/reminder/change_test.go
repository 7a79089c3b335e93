package reminder

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"RemindHub/internal/model"
	"RemindHub/pkg/errors"
)

func changeFixture(now int64) *engineFixture {
	dir := &fakeDirectory{users: map[int64]model.User{42: testUser(42, "solo@example.org")}}
	events := []model.Event{
		{ID: 1, Name: "Tutoring", Type: model.EventTypeUser, UserID: 42, TimeStart: now + 2*daySeconds, Visible: true},
	}
	return newEngineFixture(events, dir, nil)
}

func TestBroadcastChangeSends(t *testing.T) {
	now := int64(1_700_000_000)
	f := changeFixture(now)
	cfg := cycleConfig()
	cfg.NotifyOnUpdated = true

	out, err := f.engine.BroadcastChange(context.Background(), 1, ChangeUpdated, cfg)
	if err != nil {
		t.Fatalf("BroadcastChange error: %v", err)
	}
	if out.Sent != 1 {
		t.Fatalf("outcome = %+v, want 1 sent", out)
	}

	msg := f.transport.sent[0]
	if !strings.Contains(msg.Subject, "[UPDATED]") {
		t.Fatalf("subject = %q, want change marker", msg.Subject)
	}
	if !strings.Contains(msg.PlainBody, "A calendar event has been updated.") {
		t.Fatalf("body missing change banner: %q", msg.PlainBody)
	}
}

func TestBroadcastChangeGatedByConfig(t *testing.T) {
	now := int64(1_700_000_000)
	f := changeFixture(now)
	cfg := cycleConfig() // 所有变更通知默认关闭

	out, err := f.engine.BroadcastChange(context.Background(), 1, ChangeUpdated, cfg)
	if err != nil {
		t.Fatalf("BroadcastChange error: %v", err)
	}
	if out.Sent != 0 || len(f.transport.sent) != 0 {
		t.Fatalf("disabled change type still sent: %+v", out)
	}
}

func TestBroadcastChangeMissingEvent(t *testing.T) {
	f := changeFixture(1_700_000_000)
	cfg := cycleConfig()
	cfg.NotifyOnRemoved = true

	_, err := f.engine.BroadcastChange(context.Background(), 999, ChangeRemoved, cfg)
	if !stderrors.Is(err, errors.EventNotFound) {
		t.Fatalf("err = %v, want EventNotFound", err)
	}
}

func TestBroadcastChangeExpiredEvent(t *testing.T) {
	now := int64(1_700_000_000)
	f := changeFixture(now)
	f.events.events[0].TimeStart = now - 10
	cfg := cycleConfig()
	cfg.NotifyOnUpdated = true

	_, err := f.engine.BroadcastChange(context.Background(), 1, ChangeUpdated, cfg)
	if !stderrors.Is(err, errors.EventExpired) {
		t.Fatalf("err = %v, want EventExpired", err)
	}
}

func TestParseChangeType(t *testing.T) {
	tests := []struct {
		in      string
		want    ChangeType
		wantErr bool
	}{
		{"created", ChangeAdded, false},
		{"added", ChangeAdded, false},
		{"updated", ChangeUpdated, false},
		{"removed", ChangeRemoved, false},
		{"deleted", ChangeRemoved, false},
		{"renamed", ChangeNone, true},
		{"", ChangeNone, true},
	}

	for _, tt := range tests {
		got, err := ParseChangeType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseChangeType(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseChangeType(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseChangeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
