package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// SwapRequestedEmailData holds data for the mail sent to a slot owner when
// another user requests a swap.
type SwapRequestedEmailData struct {
	Email          string
	ReceiverName   string
	RequesterName  string
	TheirSlotTitle string
	MySlotTitle    string
	Message        string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendSwapRequested(ctx context.Context, data *SwapRequestedEmailData) error
}
