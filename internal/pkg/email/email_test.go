package email

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// Without SMTP credentials the service logs instead of sending, so local
// environments work without a mail server.
func TestUnconfiguredServiceIsSilent(t *testing.T) {
	service := NewEmailService(SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromName:  "CourseHub",
		FromEmail: "no-reply@coursehub.app",
		BaseURL:   "http://localhost:8080",
	}, zerolog.Nop())

	assert.NoError(t, service.SendEnrollmentRequestNotification([]string{"admin@coursehub.app"}, "Student", "Go Basics", 1))
	assert.NoError(t, service.SendEnrollmentDecision("s@example.com", "Student", "Go Basics", true))
	assert.NoError(t, service.SendPasswordResetEmail("s@example.com", "Student", "token"))
}

func TestNoRecipientsIsNoop(t *testing.T) {
	service := NewEmailService(SMTPConfig{Username: "u", Password: "p"}, zerolog.Nop())
	assert.NoError(t, service.SendEnrollmentRequestNotification(nil, "Student", "Go Basics", 1))
}
