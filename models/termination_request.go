package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusRejected = "Rejected"
)

// TerminationRequest is a tenant's ask to end a lease early. It is decided
// exactly once by the managing manager, or deleted by the tenant while still
// pending.
type TerminationRequest struct {
	gorm.Model
	LeaseID             uint       `json:"leaseId" gorm:"not null;index"`
	Lease               *Lease     `json:"lease,omitempty" gorm:"foreignKey:LeaseID"`
	TenantID            uint       `json:"tenantId" gorm:"not null;index"`
	ManagerID           uint       `json:"managerId" gorm:"not null;index"`
	Reason              string     `json:"reason"`
	RequestedEndDate    time.Time  `json:"requestedEndDate" gorm:"not null"`
	EstimatedPenaltyFee float64    `json:"estimatedPenaltyFee" gorm:"type:numeric(12,2)"`
	FinalPenaltyFee     float64    `json:"finalPenaltyFee" gorm:"type:numeric(12,2)"`
	IsEarlyTermination  bool       `json:"isEarlyTermination"`
	Status              string     `json:"status" gorm:"not null;default:'Pending';index"`
	ManagerResponse     string     `json:"managerResponse"`
	RequestedDate       time.Time  `json:"requestedDate" gorm:"not null"`
	ResponseDate        *time.Time `json:"responseDate,omitempty"`
	ApprovedEndDate     *time.Time `json:"approvedEndDate,omitempty"`
}
