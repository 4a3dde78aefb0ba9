package notify

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// EmailSink mails each event to the recipient's address. Sends run in their
// own goroutine so an unreachable SMTP server can never stall a payment or
// termination mutation.
type EmailSink struct {
	db     *gorm.DB
	dialer *gomail.Dialer
	sender string
}

func NewEmailSink(db *gorm.DB, dialer *gomail.Dialer, sender string) *EmailSink {
	return &EmailSink{db: db, dialer: dialer, sender: sender}
}

func (s *EmailSink) Notify(recipientID uint, eventType string, payload map[string]interface{}) {
	var user models.User
	if err := s.db.First(&user, recipientID).Error; err != nil {
		slog.Warn("email notification skipped, recipient not found", "recipient", recipientID, "event", eventType)
		return
	}
	if user.Email == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", eventTitles[eventType])
	m.SetBody("text/plain", renderBody(eventType, payload))

	go func() {
		if err := s.dialer.DialAndSend(m); err != nil {
			slog.Error("failed to send notification email", "recipient", user.Email, "event", eventType, "error", err)
		}
	}()
}

func renderBody(eventType string, payload map[string]interface{}) string {
	body := eventTitles[eventType]
	if body == "" {
		body = eventType
	}
	for key, value := range payload {
		body += fmt.Sprintf("\n%s: %v", key, value)
	}
	return body
}
