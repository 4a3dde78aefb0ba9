// Package notify delivers domain events to recipients, best effort. Sinks
// never block the primary mutation and never return an error to the caller;
// failures are logged and dropped.
package notify

import (
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// Event types emitted by the financial core.
const (
	EventPaymentDue           = "payment_due"
	EventPaymentReceived      = "payment_received"
	EventPaymentOverdue       = "payment_overdue"
	EventPaymentReminder      = "payment_reminder"
	EventTerminationRequested = "termination_requested"
	EventTerminationDecided   = "termination_decided"
)

var eventTitles = map[string]string{
	EventPaymentDue:           "Rent payment due",
	EventPaymentReceived:      "Payment received",
	EventPaymentOverdue:       "Payment overdue",
	EventPaymentReminder:      "Upcoming rent payment",
	EventTerminationRequested: "New termination request",
	EventTerminationDecided:   "Termination request decided",
}

type Sink interface {
	Notify(recipientID uint, eventType string, payload map[string]interface{})
}

// StoreSink persists each event as a Notification row.
type StoreSink struct {
	db *gorm.DB
}

func NewStoreSink(db *gorm.DB) *StoreSink {
	return &StoreSink{db: db}
}

func (s *StoreSink) Notify(recipientID uint, eventType string, payload map[string]interface{}) {
	n := models.Notification{
		UserID:    recipientID,
		EventID:   uuid.NewString(),
		EventType: eventType,
		Title:     eventTitles[eventType],
		Payload:   payload,
	}
	if err := s.db.Create(&n).Error; err != nil {
		slog.Error("failed to store notification", "recipient", recipientID, "event", eventType, "error", err)
	}
}

// Fanout delivers every event to each wrapped sink.
type Fanout []Sink

func (f Fanout) Notify(recipientID uint, eventType string, payload map[string]interface{}) {
	for _, sink := range f {
		sink.Notify(recipientID, eventType, payload)
	}
}

// Discard drops everything. Useful in tests and as a safe default.
type Discard struct{}

func (Discard) Notify(uint, string, map[string]interface{}) {}
