package services

import (
	"context"
	"fmt"
	"log"

	"slotswapper/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendSwapRequested notifies a slot owner that someone proposed a swap, using
// the "swap_requested" template.
func (s *emailService) SendSwapRequested(ctx context.Context, data *domain.SwapRequestedEmailData) error {
	if data == nil {
		return fmt.Errorf("swap requested email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("swap_requested", data)
	if err != nil {
		return fmt.Errorf("failed to render swap_requested template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send swap requested email: %w", err)
	}
	log.Printf("[EMAIL] Swap request notification sent to %s", data.Email)
	return nil
}
