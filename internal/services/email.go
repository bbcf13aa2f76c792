package services

import (
	"context"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"paramanu/internal/config"
	"paramanu/internal/domain"
	"paramanu/internal/relay"
)

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService emails staff about new inquiries
type EmailService struct {
	cfg      *config.EmailConfig
	logger   *zap.Logger
	sendMail sendMailFunc
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		cfg:      cfg,
		logger:   logger.Named("email"),
		sendMail: smtp.SendMail,
	}
}

// Name identifies the channel in logs and metrics.
func (s *EmailService) Name() string {
	return "email"
}

// Notify sends the inquiry summary to the staff inbox.
func (s *EmailService) Notify(ctx context.Context, inq *domain.Inquiry) error {
	if s.cfg.NotifyTo == "" {
		return fmt.Errorf("EMAIL_NOTIFY_TO is not set")
	}
	subject := fmt.Sprintf("New %s - %s", inq.Kind.Label(), inq.Name)
	lines := relay.PayloadFrom(inq).Lines()
	return s.SendHTMLEmail(ctx, s.cfg.NotifyTo, subject, inquiryEmailHTML(inq, lines), inquiryEmailText(lines))
}

func inquiryEmailText(lines []string) string {
	var b strings.Builder
	b.WriteString("A new inquiry was submitted on the website.\n\n")
	for _, l := range lines {
		b.WriteString(strings.ReplaceAll(l, "*", ""))
		b.WriteString("\n")
	}
	return b.String()
}

func inquiryEmailHTML(inq *domain.Inquiry, lines []string) string {
	var rows strings.Builder
	for _, l := range lines {
		label, value, _ := strings.Cut(strings.TrimPrefix(l, "*"), ":* ")
		fmt.Fprintf(&rows, `<tr><td style="padding: 6px 12px; font-weight: 600; color: #0D1A2D;">%s</td><td style="padding: 6px 12px; color: #334155;">%s</td></tr>`,
			html.EscapeString(label), html.EscapeString(value))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="margin: 0; padding: 24px; background-color: #F8FAFC; font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif;">
    <table role="presentation" cellspacing="0" cellpadding="0" border="0" width="600" style="margin: 0 auto; background-color: #FFFFFF; border-radius: 12px;">
        <tr><td style="padding: 24px 24px 8px;"><h2 style="margin: 0; color: #0D1A2D;">New %s</h2></td></tr>
        <tr><td style="padding: 8px 12px 24px;"><table role="presentation" width="100%%">%s</table></td></tr>
        <tr><td style="padding: 16px 24px; font-size: 12px; color: #94A3B8;">Received %s</td></tr>
    </table>
</body>
</html>`,
		html.EscapeString(inq.Kind.Label()),
		html.EscapeString(inq.Kind.Label()),
		rows.String(),
		time.Now().UTC().Format(time.RFC1123))
}

// SendHTMLEmail sends an HTML email with plain text fallback
func (s *EmailService) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		s.logger.Info("Email disabled, skipping send", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	from := s.cfg.FromEmail
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.FromEmail)
	}

	boundary := fmt.Sprintf("----=_Part_%d", time.Now().UnixNano())

	headers := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", to) +
		fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject)) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	message := headers +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		textBody + "\r\n"

	if htmlBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"\r\n" +
			htmlBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	// net/smtp has no context support; run the send so ctx can still bound it.
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(addr, auth, s.cfg.FromEmail, []string{to}, []byte(message))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}
