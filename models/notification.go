package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// NotificationPayload stores the event payload as a JSONB blob.
type NotificationPayload map[string]interface{}

func (p NotificationPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *NotificationPayload) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for NotificationPayload")
	}
}

// Notification is the persisted form of a delivered event. Delivery is
// best-effort; nothing in the core depends on these rows existing.
type Notification struct {
	gorm.Model
	UserID    uint                `json:"userId" gorm:"not null;index"`
	EventID   string              `json:"eventId" gorm:"index"`
	EventType string              `json:"eventType" gorm:"not null;index"`
	Title     string              `json:"title"`
	Payload   NotificationPayload `json:"payload" gorm:"type:jsonb"`
	ReadAt    *time.Time          `json:"readAt,omitempty"`
}
