package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/config"
	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier submits reports over SMTP. Port 465 uses implicit TLS.
type SMTPNotifier struct {
	from   string
	sender mailSender
}

// NewSMTPNotifier creates a notifier authenticated with the configured credentials.
// The sender address doubles as the username when SMTP_USERNAME is unset.
func NewSMTPNotifier(cfg config.EmailConfig) *SMTPNotifier {
	username := cfg.Username
	if username == "" {
		username = cfg.Sender
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, username, cfg.Password)
	dialer.SSL = cfg.SMTPPort == 465
	return &SMTPNotifier{from: cfg.Sender, sender: dialer}
}

// Send builds the MIME message and submits it once.
func (n *SMTPNotifier) Send(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.sender.DialAndSend(n.message(report)); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

func (n *SMTPNotifier) message(report Report) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", report.To)
	m.SetHeader("Subject", report.Subject)
	m.SetHeader("Message-ID", "<"+uuid.NewString()+"@face-attendance>")
	m.SetBody("text/plain", report.Body)

	if len(report.Attachment) > 0 {
		data := report.Attachment
		m.Attach(report.AttachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {XLSXContentType}}),
		)
	}
	return m
}
