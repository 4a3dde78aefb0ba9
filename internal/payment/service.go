// Package payment implements the rent payment lifecycle: recording money
// against an obligation, creating the monthly obligation rows, and the
// overdue and reminder sweeps the scheduler drives.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/money"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/notify"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

// ReminderLeadDays is how far ahead of the due date the reminder sweep looks.
const ReminderLeadDays = 3

type Service struct {
	stores *store.Stores
	sink   notify.Sink
	clk    clock.Clock
}

func NewService(stores *store.Stores, sink notify.Sink, clk clock.Clock) *Service {
	return &Service{stores: stores, sink: sink, clk: clk}
}

// authorizeLease hides a lease's financial records from everyone but its
// tenant and its manager. Strangers get NotFound, never Forbidden, so the
// response does not leak that the lease exists.
func authorizeLease(lease *models.Lease, callerID uint) error {
	if lease.TenantID != callerID && lease.ManagerID != callerID {
		return fmt.Errorf("lease %d: %w", lease.ID, apperr.ErrNotFound)
	}
	return nil
}

// RecordPayment adds money to a payment and derives the new status. The
// caller must be the lease's tenant or manager. The payment date is set
// once, on the transition into Paid, and never overwritten afterwards.
// Status downgrades are never performed here; the overdue transition
// belongs to the sweep alone.
func (s *Service) RecordPayment(ctx context.Context, paymentID, callerID uint, amount float64, paymentDate *time.Time) (*models.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amountPaid must be positive: %w", apperr.ErrInvalidInput)
	}
	date := s.clk.Now()
	if paymentDate != nil {
		date = *paymentDate
	}

	var updated *models.Payment
	var lease *models.Lease
	var newlyPaid bool
	err := s.stores.InTx(ctx, func(tx *store.Stores) error {
		p, err := tx.Payments.Get(ctx, paymentID)
		if err != nil {
			return err
		}
		lease, err = tx.Leases.Get(ctx, p.LeaseID)
		if err != nil {
			return err
		}
		if err := authorizeLease(lease, callerID); err != nil {
			return err
		}
		newlyPaid = apply(p, amount, date)
		if err := tx.Payments.Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newlyPaid {
		s.sink.Notify(lease.ManagerID, notify.EventPaymentReceived, map[string]interface{}{
			"paymentId":  updated.ID,
			"leaseId":    lease.ID,
			"amountPaid": updated.AmountPaid,
			"amountDue":  updated.AmountDue,
		})
	}
	return updated, nil
}

// apply mutates the payment for one recorded amount and reports whether it
// just became fully paid. Kept separate so the status stays a pure function
// of (amountDue, amountPaid, paymentDate) for any call sequence.
func apply(p *models.Payment, amount float64, date time.Time) bool {
	p.AmountPaid = money.Round2(p.AmountPaid + amount)
	switch {
	case p.AmountPaid >= p.AmountDue:
		newlyPaid := p.PaymentStatus != models.PaymentStatusPaid
		p.PaymentStatus = models.PaymentStatusPaid
		if p.PaymentDate == nil {
			d := date
			p.PaymentDate = &d
		}
		return newlyPaid
	case p.AmountPaid > 0:
		p.PaymentStatus = models.PaymentStatusPartiallyPaid
	}
	return false
}

// CreateMonthlyPayment creates the rent obligation for the month starting at
// monthStart, idempotently: at most one payment per (lease, month) ever
// exists, and repeat calls return the existing row without re-notifying.
func (s *Service) CreateMonthlyPayment(ctx context.Context, leaseID uint, monthStart time.Time) (*models.Payment, bool, error) {
	monthStart = MonthStart(monthStart)

	var out *models.Payment
	var lease *models.Lease
	created := false
	err := s.stores.InTx(ctx, func(tx *store.Stores) error {
		var err error
		lease, err = tx.Leases.Get(ctx, leaseID)
		if err != nil {
			return err
		}
		existing, err := tx.Payments.FindByPeriod(ctx, leaseID, monthStart)
		if err == nil {
			out = existing
			return nil
		}
		if !isNotFound(err) {
			return err
		}
		period := monthStart
		p := &models.Payment{
			LeaseID:       leaseID,
			AmountDue:     lease.MonthlyRent,
			AmountPaid:    0,
			DueDate:       monthStart,
			PaymentStatus: models.PaymentStatusPending,
			PeriodStart:   &period,
		}
		if err := tx.Payments.Create(ctx, p); err != nil {
			return err
		}
		out = p
		created = true
		return nil
	})
	if err != nil {
		// The unique index on (lease_id, period_start) is the backstop for
		// two creators racing past the check; the loser re-reads the winner.
		if isConflict(err) {
			existing, findErr := s.stores.Payments.FindByPeriod(ctx, leaseID, monthStart)
			if findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	if created {
		s.sink.Notify(lease.TenantID, notify.EventPaymentDue, map[string]interface{}{
			"paymentId": out.ID,
			"leaseId":   lease.ID,
			"amountDue": out.AmountDue,
			"dueDate":   out.DueDate.Format("2006-01-02"),
		})
	}
	return out, created, nil
}

// SweepOverdue transitions every open payment past its due date to Overdue
// and returns the transitioned set. Safe to re-run: already-Overdue rows fall
// outside the scan predicate and the write re-checks the status.
func (s *Service) SweepOverdue(ctx context.Context, now time.Time) ([]models.Payment, error) {
	candidates, err := s.stores.Payments.OpenDueBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	var transitioned []models.Payment
	for _, p := range candidates {
		ok, err := s.stores.Payments.TransitionOverdue(ctx, p.ID)
		if err != nil {
			return transitioned, err
		}
		if !ok {
			continue
		}
		p.PaymentStatus = models.PaymentStatusOverdue
		transitioned = append(transitioned, p)

		lease, err := s.stores.Leases.Get(ctx, p.LeaseID)
		if err != nil {
			slog.Error("overdue sweep: lease lookup failed", "lease_id", p.LeaseID, "error", err)
			continue
		}
		payload := map[string]interface{}{
			"paymentId": p.ID,
			"leaseId":   lease.ID,
			"amountDue": p.AmountDue,
			"dueDate":   p.DueDate.Format("2006-01-02"),
		}
		s.sink.Notify(lease.TenantID, notify.EventPaymentOverdue, payload)
		s.sink.Notify(lease.ManagerID, notify.EventPaymentOverdue, payload)
	}
	return transitioned, nil
}

// SendReminders notifies tenants of Pending payments due in exactly
// ReminderLeadDays. Duplicate sends within a day are acceptable; reminders
// are advisory.
func (s *Service) SendReminders(ctx context.Context, now time.Time) (int, error) {
	day := DayStart(now).AddDate(0, 0, ReminderLeadDays)
	due, err := s.stores.Payments.PendingDueBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return 0, err
	}
	for _, p := range due {
		lease, err := s.stores.Leases.Get(ctx, p.LeaseID)
		if err != nil {
			slog.Error("reminder sweep: lease lookup failed", "lease_id", p.LeaseID, "error", err)
			continue
		}
		s.sink.Notify(lease.TenantID, notify.EventPaymentReminder, map[string]interface{}{
			"paymentId": p.ID,
			"leaseId":   lease.ID,
			"amountDue": p.AmountDue,
			"dueDate":   p.DueDate.Format("2006-01-02"),
		})
	}
	return len(due), nil
}

// CreateNextMonthPayments runs the monthly creation job for every lease still
// running past now. Re-running after a partial failure is safe because the
// per-lease creation is idempotent.
func (s *Service) CreateNextMonthPayments(ctx context.Context, now time.Time) (int, error) {
	leases, err := s.stores.Leases.ActiveEndingAfter(ctx, now)
	if err != nil {
		return 0, err
	}
	monthStart := MonthStart(now).AddDate(0, 1, 0)
	created := 0
	for _, lease := range leases {
		_, wasCreated, err := s.CreateMonthlyPayment(ctx, lease.ID, monthStart)
		if err != nil {
			slog.Error("monthly payment creation failed", "lease_id", lease.ID, "error", err)
			continue
		}
		if wasCreated {
			created++
		}
	}
	return created, nil
}

// ListByLease returns a lease's payments, oldest first, for its tenant or
// manager.
func (s *Service) ListByLease(ctx context.Context, leaseID, callerID uint) ([]models.Payment, error) {
	lease, err := s.stores.Leases.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeLease(lease, callerID); err != nil {
		return nil, err
	}
	return s.stores.Payments.ListByLease(ctx, leaseID)
}

// ListByProperty returns every payment across a property's leases, for the
// manager of that property only.
func (s *Service) ListByProperty(ctx context.Context, propertyID, callerID uint) ([]models.Payment, error) {
	prop, err := s.stores.Properties.Get(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop.ManagerID != callerID {
		return nil, fmt.Errorf("property %d: %w", propertyID, apperr.ErrNotFound)
	}
	return s.stores.Payments.ListByProperty(ctx, propertyID)
}

// CurrentStatus describes the obligation currently in force for a lease: its
// most recent payment by due date.
type CurrentStatus struct {
	PaymentStatus string     `json:"paymentStatus"`
	AmountDue     float64    `json:"amountDue"`
	AmountPaid    float64    `json:"amountPaid"`
	DueDate       time.Time  `json:"dueDate"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
}

func (s *Service) CurrentStatus(ctx context.Context, leaseID, callerID uint) (*CurrentStatus, error) {
	lease, err := s.stores.Leases.Get(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if err := authorizeLease(lease, callerID); err != nil {
		return nil, err
	}
	p, err := s.stores.Payments.Latest(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	return &CurrentStatus{
		PaymentStatus: p.PaymentStatus,
		AmountDue:     p.AmountDue,
		AmountPaid:    p.AmountPaid,
		DueDate:       p.DueDate,
		PaymentDate:   p.PaymentDate,
	}, nil
}

// MonthStart truncates t to the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// DayStart truncates t to midnight.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isNotFound(err error) bool { return errors.Is(err, apperr.ErrNotFound) }
func isConflict(err error) bool { return errors.Is(err, apperr.ErrConflict) }
