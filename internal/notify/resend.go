package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// emailsAPI is the part of the Resend client used here.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier sends reports through the Resend HTTP API.
type ResendNotifier struct {
	from   string
	emails emailsAPI
}

// NewResendNotifier creates a Resend-backed notifier.
func NewResendNotifier(from, apiKey string) *ResendNotifier {
	client := resend.NewClient(apiKey)
	return &ResendNotifier{from: from, emails: client.Emails}
}

// Send submits the report once.
func (n *ResendNotifier) Send(ctx context.Context, report Report) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{report.To},
		Subject: report.Subject,
		Text:    report.Body,
	}
	if len(report.Attachment) > 0 {
		params.Attachments = []*resend.Attachment{{
			Content:     report.Attachment,
			Filename:    report.AttachmentName,
			ContentType: XLSXContentType,
		}}
	}

	if _, err := n.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}
