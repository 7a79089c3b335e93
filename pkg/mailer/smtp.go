package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

var errNoSMTPHost = errors.New("SMTP_HOST is not configured")

// SMTPClient 基于标准库 net/smtp 的投递实现。
// 每次 Send 建立一条新连接，由外层队列控制吞吐。
type SMTPClient struct {
	host     string
	port     string
	username string
	password string
}

func NewSMTPClient(host, port, username, password string) *SMTPClient {
	return &SMTPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (c *SMTPClient) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if mail.To == "" {
		return fmt.Errorf("mail has no recipient address")
	}

	var auth smtp.Auth
	if c.username != "" {
		auth = smtp.PlainAuth("", c.username, c.password, c.host)
	}

	addr := net.JoinHostPort(c.host, c.port)
	body := buildRFC822(mail)

	if err := smtp.SendMail(addr, auth, mail.From, []string{mail.To}, body); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", mail.To, err)
	}
	return nil
}

// buildRFC822 组装 multipart/alternative 邮件体，纯文本与 HTML 各一份。
func buildRFC822(mail Mail) []byte {
	const boundary = "=_remindhub_alt"

	from := mail.From
	if mail.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mail.FromName, mail.From)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	for _, h := range mail.Headers {
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(mail.PlainBody)
	b.WriteString("\r\n")

	if mail.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(mail.HTMLBody)
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}
