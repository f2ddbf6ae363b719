package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/ledgerpad/ledgerpad/internal/config"
)

// ErrMailerUnavailable signals that no SMTP transport is configured.
// The export pipeline degrades to a text-only result the caller can
// copy into their own mail client.
var ErrMailerUnavailable = errors.New("mailer_unavailable")

// Attachment is a file shipped with an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments []Attachment) error
}

// NewMailer returns the SMTP mailer when configured, the no-op mailer
// otherwise.
func NewMailer(cfg config.Config) Mailer {
	if cfg.Email.Configured() {
		return &SMTPMailer{cfg: cfg.Email}
	}
	return NoOpMailer{}
}

type SMTPMailer struct {
	cfg config.EmailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string, attachments []Attachment) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	}

	msg, err := buildMessage(m.cfg.SMTPFrom, to, subject, body, attachments)
	if err != nil {
		return err
	}
	return smtp.SendMail(addr, auth, m.cfg.SMTPFrom, []string{to}, msg)
}

func buildMessage(from, to, subject, body string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=\"UTF-8\"")
	part, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", attachment.ContentType)
		header.Set("Content-Transfer-Encoding", "base64")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(attachment.Data)
		if _, err := part.Write([]byte(encoded)); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NoOpMailer stands in when SMTP is not configured.
type NoOpMailer struct{}

func (NoOpMailer) Send(ctx context.Context, to, subject, body string, attachments []Attachment) error {
	return ErrMailerUnavailable
}
