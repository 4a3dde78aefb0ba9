package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	LeaseStatusActive     = "Active"
	LeaseStatusTerminated = "Terminated"
	LeaseStatusExpired    = "Expired"
)

// Lease is a fixed-term rental agreement. ManagerID is denormalized from the
// property so ownership checks don't need a join on every request.
type Lease struct {
	gorm.Model
	PropertyID      uint       `json:"propertyId" gorm:"index;not null"`
	Property        *Property  `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	TenantID        uint       `json:"tenantId" gorm:"index;not null"`
	Tenant          *User      `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
	ManagerID       uint       `json:"managerId" gorm:"index;not null"`
	StartDate       time.Time  `json:"startDate" gorm:"not null"`
	EndDate         time.Time  `json:"endDate" gorm:"not null"`
	MonthlyRent     float64    `json:"monthlyRent" gorm:"type:numeric(12,2);not null"`
	Status          string     `json:"status" gorm:"not null;default:'Active';index"`
	TerminationDate *time.Time `json:"terminationDate,omitempty"`
}
