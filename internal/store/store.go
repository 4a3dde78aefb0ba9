// Package store holds the persistence layer: one repository per aggregate,
// backed by an injected *gorm.DB. Nothing here keeps package-level state;
// callers that need multi-repository atomicity run inside Stores.InTx.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// PaymentLedger is the persistent store of payment records.
type PaymentLedger interface {
	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id uint) (*models.Payment, error)
	Save(ctx context.Context, p *models.Payment) error
	// FindByPeriod returns the rent payment whose obligation month starts at
	// monthStart, or apperr.ErrNotFound.
	FindByPeriod(ctx context.Context, leaseID uint, monthStart time.Time) (*models.Payment, error)
	ListByLease(ctx context.Context, leaseID uint) ([]models.Payment, error)
	ListByProperty(ctx context.Context, propertyID uint) ([]models.Payment, error)
	ListAll(ctx context.Context) ([]models.Payment, error)
	// Latest returns the lease's most recent payment by due date.
	Latest(ctx context.Context, leaseID uint) (*models.Payment, error)
	OpenDueBefore(ctx context.Context, cutoff time.Time) ([]models.Payment, error)
	PendingDueBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error)
	// TransitionOverdue flips a still-open payment to Overdue. The predicate
	// re-checks the status at write time, so repeated sweeps are no-ops.
	TransitionOverdue(ctx context.Context, id uint) (bool, error)
}

// PolicyStore is the persistent store of termination policies.
type PolicyStore interface {
	Get(ctx context.Context, id uint) (*models.TerminationPolicy, error)
	// GetActive returns the single active policy of a property, or
	// apperr.ErrNotFound.
	GetActive(ctx context.Context, propertyID uint) (*models.TerminationPolicy, error)
	// EnsureActive returns the active policy, provisioning the supplied
	// default exactly once when the property has none.
	EnsureActive(ctx context.Context, propertyID uint, provision func() *models.TerminationPolicy) (*models.TerminationPolicy, error)
	// Create validates the policy, deactivates the prior active one and
	// inserts the new version as active, atomically.
	Create(ctx context.Context, p *models.TerminationPolicy) error
	List(ctx context.Context, propertyID uint, activeOnly bool) ([]models.TerminationPolicy, error)
	Delete(ctx context.Context, id uint) error
}

// PropertyStore reads properties. Property CRUD is owned by the listings
// service; the financial core only resolves ownership.
type PropertyStore interface {
	Get(ctx context.Context, id uint) (*models.Property, error)
}

// LeaseStore reads and mutates leases. Lease CRUD itself is owned by the
// listings service; the financial core only needs these operations.
type LeaseStore interface {
	Get(ctx context.Context, id uint) (*models.Lease, error)
	// GetActiveOwned returns the lease only when it is Active and owned by
	// the given tenant.
	GetActiveOwned(ctx context.Context, id, tenantID uint) (*models.Lease, error)
	Save(ctx context.Context, l *models.Lease) error
	ActiveEndingAfter(ctx context.Context, cutoff time.Time) ([]models.Lease, error)
}

// RequestStore is the persistent store of termination requests.
type RequestStore interface {
	Create(ctx context.Context, r *models.TerminationRequest) error
	Get(ctx context.Context, id uint) (*models.TerminationRequest, error)
	ListByTenant(ctx context.Context, tenantID uint) ([]models.TerminationRequest, error)
	ListByManager(ctx context.Context, managerID uint) ([]models.TerminationRequest, error)
	// Decide applies the decision columns only while the request is still
	// Pending; returns false when another decision won the race.
	Decide(ctx context.Context, id uint, fields map[string]interface{}) (bool, error)
	// DeletePending withdraws a tenant's own request while still Pending.
	DeletePending(ctx context.Context, id, tenantID uint) (bool, error)
}

// Stores bundles the repositories sharing one *gorm.DB handle.
type Stores struct {
	db *gorm.DB

	Payments   PaymentLedger
	Policies   PolicyStore
	Leases     LeaseStore
	Requests   RequestStore
	Properties PropertyStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		db:         db,
		Payments:   &gormPaymentLedger{db: db},
		Policies:   &gormPolicyStore{db: db},
		Leases:     &gormLeaseStore{db: db},
		Requests:   &gormRequestStore{db: db},
		Properties: &gormPropertyStore{db: db},
	}
}

// InTx runs fn with every repository rebound to one database transaction.
func (s *Stores) InTx(ctx context.Context, fn func(tx *Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
