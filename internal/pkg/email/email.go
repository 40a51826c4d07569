package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-attendance/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendReviewReturned(ctx context.Context, to, engineerName, cycleLabel, hrNotes, reviewLink string) error
	SendReviewApproved(ctx context.Context, to, engineerName, cycleLabel string) error
}

type emailServiceImpl struct {
	from      string
	fromName  string
	transport transport
	templates *template.Template
	backoff   func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance. With the smtp driver
// and no host configured, mails are logged and dropped.
func NewEmailService(ctx context.Context, cfg config.EmailConfig) (EmailService, error) {
	var t transport
	switch cfg.Driver {
	case "ses":
		ses, err := newSESTransport(ctx, cfg.SESRegion)
		if err != nil {
			return nil, err
		}
		t = ses
	default:
		if cfg.Host != "" {
			t = newSMTPTransport(cfg)
		}
	}

	return newEmailService(cfg.From, cfg.FromName, t, func(attempt int) time.Duration {
		// 1s, 2s, 4s
		return time.Duration(1<<(attempt-1)) * time.Second
	})
}

func newEmailService(from, fromName string, t transport, backoff func(int) time.Duration) (*emailServiceImpl, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		from:      from,
		fromName:  fromName,
		transport: t,
		templates: tmpl,
		backoff:   backoff,
	}, nil
}

type reviewEmailData struct {
	EngineerName string
	CycleLabel   string
	HRNotes      string
	ReviewLink   string
}

// SendReviewReturned tells an engineer their signed review was sent back
func (s *emailServiceImpl) SendReviewReturned(ctx context.Context, to, engineerName, cycleLabel, hrNotes, reviewLink string) error {
	data := reviewEmailData{
		EngineerName: engineerName,
		CycleLabel:   cycleLabel,
		HRNotes:      hrNotes,
		ReviewLink:   reviewLink,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "review_returned.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Attendance review returned: %s", cycleLabel), body.String())
}

// SendReviewApproved tells an engineer their review was accepted
func (s *emailServiceImpl) SendReviewApproved(ctx context.Context, to, engineerName, cycleLabel string) error {
	data := reviewEmailData{
		EngineerName: engineerName,
		CycleLabel:   cycleLabel,
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "review_approved.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(ctx, to, fmt.Sprintf("Attendance review approved: %s", cycleLabel), body.String())
}

func (s *emailServiceImpl) sendHTML(ctx context.Context, to, subject, htmlBody string) error {
	if s.transport == nil {
		slog.Warn("Email not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.transport.Send(ctx, s.from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		if attempt < maxRetries {
			select {
			case <-time.After(s.backoff(attempt)):
			case <-ctx.Done():
				return fmt.Errorf("email send aborted: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
