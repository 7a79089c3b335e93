package mailer

import (
	"context"
	"strings"
	"testing"
)

func sampleMail() Mail {
	return Mail{
		From:      "noreply@example.org",
		FromName:  "RemindHub",
		To:        "student@example.org",
		Subject:   "[Reminder] Final exam",
		PlainBody: "Final exam tomorrow.",
		HTMLBody:  "<p>Final exam tomorrow.</p>",
		Headers:   []string{"X-Event-Id: 11"},
	}
}

func TestBuildRFC822(t *testing.T) {
	body := string(buildRFC822(sampleMail()))

	for _, want := range []string{
		"From: RemindHub <noreply@example.org>\r\n",
		"To: student@example.org\r\n",
		"Subject: [Reminder] Final exam\r\n",
		"X-Event-Id: 11\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Type: text/html; charset=utf-8",
		"Final exam tomorrow.",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("mail body missing %q:\n%s", want, body)
		}
	}
}

func TestBuildRFC822PlainOnly(t *testing.T) {
	mail := sampleMail()
	mail.HTMLBody = ""
	mail.FromName = ""

	body := string(buildRFC822(mail))
	if strings.Contains(body, "text/html") {
		t.Fatal("plain-only mail carries an HTML part")
	}
	if !strings.Contains(body, "From: noreply@example.org\r\n") {
		t.Fatalf("bare from address not rendered:\n%s", body)
	}
}

func TestSMTPClientRejectsEmptyRecipient(t *testing.T) {
	c := NewSMTPClient("localhost", "25", "", "")
	mail := sampleMail()
	mail.To = ""

	if err := c.Send(context.Background(), mail); err == nil {
		t.Fatal("expected error for mail without recipient")
	}
}

func TestSMTPClientHonorsContextCancellation(t *testing.T) {
	c := NewSMTPClient("localhost", "25", "", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Send(ctx, sampleMail()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestMockClient(t *testing.T) {
	m := NewMockClient()

	if err := m.Send(context.Background(), sampleMail()); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if m.SentTo("student@example.org") != 1 {
		t.Fatalf("SentTo = %d, want 1", m.SentTo("student@example.org"))
	}

	m.FailNext = true
	if err := m.Send(context.Background(), sampleMail()); err == nil {
		t.Fatal("expected failure when FailNext is set")
	}
	// FailNext 自动复位
	if err := m.Send(context.Background(), sampleMail()); err != nil {
		t.Fatalf("Send after FailNext reset: %v", err)
	}

	m.FailAddresses["vip@example.org"] = true
	mail := sampleMail()
	mail.To = "vip@example.org"
	if err := m.Send(context.Background(), mail); err == nil {
		t.Fatal("expected persistent failure for flagged address")
	}
}
