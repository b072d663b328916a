package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendEnrollmentRequestNotification(adminEmails []string, studentName, courseName string, requestID int64) error
	SendEnrollmentDecision(toEmail, toName, courseName string, approved bool) error
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string // Base URL for the application
}

// emailServiceImpl implements EmailService
type emailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &emailServiceImpl{
		config: config,
		logger: logger,
	}
}

// SendEnrollmentRequestNotification notifies admins that a student filed a
// new enrollment request.
func (s *emailServiceImpl) SendEnrollmentRequestNotification(adminEmails []string, studentName, courseName string, requestID int64) error {
	if len(adminEmails) == 0 {
		return nil
	}
	if !s.configured() {
		s.logger.Warn().
			Strs("adminEmails", adminEmails).
			Int64("requestID", requestID).
			Msg("SMTP credentials not configured - enrollment notification not sent")
		return nil
	}

	subject := "New Enrollment Request - CourseHub"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">New Enrollment Request</h2>
				<p>%s has requested enrollment in <strong>%s</strong>.</p>
				<p>Review it here: <a href="%s/api/v1/enrollments/requests">%s/api/v1/enrollments/requests</a> (request #%d)</p>
			</div>
		</body>
		</html>
	`, studentName, courseName, s.config.BaseURL, s.config.BaseURL, requestID)

	var firstErr error
	for _, to := range adminEmails {
		if err := s.sendHTMLEmail(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendEnrollmentDecision informs a student that their request was approved
// or rejected.
func (s *emailServiceImpl) SendEnrollmentDecision(toEmail, toName, courseName string, approved bool) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Bool("approved", approved).
			Msg("SMTP credentials not configured - enrollment decision email not sent")
		return nil
	}

	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	subject := fmt.Sprintf("Your enrollment request was %s - CourseHub", decision)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>Your enrollment request for <strong>%s</strong> has been %s.</p>
				<p>Best regards,<br>The CourseHub Team</p>
			</div>
		</body>
		</html>
	`, toName, courseName, decision)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends a password reset token to the user.
func (s *emailServiceImpl) SendPasswordResetEmail(toEmail, toName, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - password reset email not sent. Use the URL above for testing.")
		return nil
	}

	subject := "Reset Your Password - CourseHub"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>We received a request to reset your password. Click the button below to choose a new one:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Reset Password</a>
				</div>
				<p>This link expires in 1 hour. If you did not request a reset, please ignore this email.</p>
				<p>Best regards,<br>The CourseHub Team</p>
			</div>
		</body>
		</html>
	`, toName, resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *emailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// sendHTMLEmail sends an HTML email through the configured SMTP server.
func (s *emailServiceImpl) sendHTMLEmail(toEmail, subject, body string) error {
	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}

	headers := []string{
		"From: " + from,
		"To: " + toEmail,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{toEmail}, []byte(msg)); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
