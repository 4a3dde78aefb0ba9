package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentStatusPending       = "Pending"
	PaymentStatusPartiallyPaid = "PartiallyPaid"
	PaymentStatusPaid          = "Paid"
	PaymentStatusOverdue       = "Overdue"
)

// Payment is one rent obligation on a lease. PeriodStart is the first day of
// the obligation month for scheduled rent and NULL for one-off penalty
// payments; the composite unique index makes month creation race-safe.
type Payment struct {
	gorm.Model
	LeaseID       uint       `json:"leaseId" gorm:"not null;index;uniqueIndex:idx_lease_period"`
	Lease         *Lease     `json:"lease,omitempty" gorm:"foreignKey:LeaseID"`
	AmountDue     float64    `json:"amountDue" gorm:"type:numeric(12,2);not null"`
	AmountPaid    float64    `json:"amountPaid" gorm:"type:numeric(12,2);not null;default:0"`
	DueDate       time.Time  `json:"dueDate" gorm:"not null;index"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	PaymentStatus string     `json:"paymentStatus" gorm:"not null;default:'Pending';index"`
	PeriodStart   *time.Time `json:"periodStart,omitempty" gorm:"uniqueIndex:idx_lease_period"`
}
