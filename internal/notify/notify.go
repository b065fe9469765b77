// Package notify dispatches the attendance report by email.
package notify

import (
	"context"
	"errors"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// XLSXContentType is the MIME type of the spreadsheet attachment.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrSendFailed wraps any transport failure.
var ErrSendFailed = errors.New("failed to send email")

// Report is a single outbound message with one attachment.
type Report struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// NewAttendanceReport builds the daily report message around a spreadsheet.
func NewAttendanceReport(to string, xlsx []byte) Report {
	return Report{
		To:             to,
		Subject:        constants.ReportSubject,
		Body:           constants.ReportBody,
		AttachmentName: constants.ReportFileName,
		Attachment:     xlsx,
	}
}

// Notifier sends reports.
type Notifier interface {
	Send(ctx context.Context, report Report) error
}

// New returns the notifier for the configured provider.
func New(cfg config.EmailConfig) Notifier {
	if cfg.UsesResend() {
		return NewResendNotifier(cfg.Sender, cfg.ResendKey)
	}
	return NewSMTPNotifier(cfg)
}
