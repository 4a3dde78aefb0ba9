// Package termination orchestrates tenant-submitted early-termination
// requests: the submit-time estimate, the manager's exactly-once decision
// with its lease and payment cascade, and tenant withdrawal.
package termination

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/clock"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/money"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/notify"
	"github.com/XuanDongVo/Rental-Home-sub000/internal/store"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type Workflow struct {
	stores *store.Stores
	sink   notify.Sink
	clk    clock.Clock
}

func NewWorkflow(stores *store.Stores, sink notify.Sink, clk clock.Clock) *Workflow {
	return &Workflow{stores: stores, sink: sink, clk: clk}
}

// EstimatePenalty is the coarse day-notice tariff shown at submit time. The
// full policy engine runs only when someone asks for a proper quote; this
// keeps the submit path cheap and independent of policy configuration.
func EstimatePenalty(daysNotice int, monthlyRent float64) float64 {
	switch {
	case daysNotice >= 60:
		return 0
	case daysNotice >= 30:
		return money.Round2(monthlyRent * 0.5)
	default:
		return money.Round2(monthlyRent)
	}
}

// Submit files a termination request against an Active lease owned by the
// tenant and notifies the managing manager.
func (w *Workflow) Submit(ctx context.Context, leaseID, tenantID uint, reason string, requestedEndDate time.Time) (*models.TerminationRequest, error) {
	lease, err := w.stores.Leases.GetActiveOwned(ctx, leaseID, tenantID)
	if err != nil {
		return nil, err
	}

	now := w.clk.Now()
	if requestedEndDate.Before(now) {
		return nil, fmt.Errorf("requestedEndDate is in the past: %w", apperr.ErrInvalidInput)
	}

	daysNotice := int(math.Ceil(requestedEndDate.Sub(now).Hours() / 24))
	req := &models.TerminationRequest{
		LeaseID:             lease.ID,
		TenantID:            tenantID,
		ManagerID:           lease.ManagerID,
		Reason:              reason,
		RequestedEndDate:    requestedEndDate,
		EstimatedPenaltyFee: EstimatePenalty(daysNotice, lease.MonthlyRent),
		IsEarlyTermination:  requestedEndDate.Before(lease.EndDate),
		Status:              models.RequestStatusPending,
		RequestedDate:       now,
	}
	if err := w.stores.Requests.Create(ctx, req); err != nil {
		return nil, err
	}

	w.sink.Notify(lease.ManagerID, notify.EventTerminationRequested, map[string]interface{}{
		"requestId":        req.ID,
		"leaseId":          lease.ID,
		"requestedEndDate": requestedEndDate.Format("2006-01-02"),
		"estimatedPenalty": req.EstimatedPenaltyFee,
	})
	return req, nil
}

// Decide records the manager's decision exactly once. Approval terminates
// the lease and, for a non-zero final fee, books a penalty payment due on
// the approved end date; all of that commits in one transaction guarded by
// the request still being Pending.
func (w *Workflow) Decide(ctx context.Context, requestID, managerID uint, status, managerResponse string, finalPenaltyFee float64, approvedEndDate *time.Time) (*models.TerminationRequest, error) {
	if status != models.RequestStatusApproved && status != models.RequestStatusRejected {
		return nil, fmt.Errorf("status must be %s or %s: %w", models.RequestStatusApproved, models.RequestStatusRejected, apperr.ErrInvalidInput)
	}
	if finalPenaltyFee < 0 {
		return nil, fmt.Errorf("finalPenaltyFee must be >= 0: %w", apperr.ErrInvalidInput)
	}

	req, err := w.stores.Requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ManagerID != managerID {
		return nil, fmt.Errorf("request %d is not managed by user %d: %w", requestID, managerID, apperr.ErrUnauthorized)
	}

	now := w.clk.Now()
	endDate := req.RequestedEndDate
	if approvedEndDate != nil {
		endDate = *approvedEndDate
	}

	fields := map[string]interface{}{
		"status":           status,
		"manager_response": managerResponse,
		"response_date":    now,
	}
	if status == models.RequestStatusApproved {
		fields["final_penalty_fee"] = finalPenaltyFee
		fields["approved_end_date"] = endDate
	}

	err = w.stores.InTx(ctx, func(tx *store.Stores) error {
		decided, err := tx.Requests.Decide(ctx, requestID, fields)
		if err != nil {
			return err
		}
		if !decided {
			return fmt.Errorf("request %d is already decided: %w", requestID, apperr.ErrConflict)
		}
		if status != models.RequestStatusApproved {
			return nil
		}

		lease, err := tx.Leases.Get(ctx, req.LeaseID)
		if err != nil {
			return err
		}
		lease.Status = models.LeaseStatusTerminated
		termDate := endDate
		lease.TerminationDate = &termDate
		if err := tx.Leases.Save(ctx, lease); err != nil {
			return err
		}

		if finalPenaltyFee > 0 {
			penalty := &models.Payment{
				LeaseID:       lease.ID,
				AmountDue:     money.Round2(finalPenaltyFee),
				AmountPaid:    0,
				DueDate:       endDate,
				PaymentStatus: models.PaymentStatusPending,
			}
			if err := tx.Payments.Create(ctx, penalty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.sink.Notify(req.TenantID, notify.EventTerminationDecided, map[string]interface{}{
		"requestId":       requestID,
		"leaseId":         req.LeaseID,
		"status":          status,
		"managerResponse": managerResponse,
		"finalPenaltyFee": finalPenaltyFee,
	})
	return w.stores.Requests.Get(ctx, requestID)
}

// Withdraw deletes a tenant's own request while it is still Pending.
func (w *Workflow) Withdraw(ctx context.Context, requestID, tenantID uint) error {
	req, err := w.stores.Requests.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TenantID != tenantID {
		return fmt.Errorf("request %d does not belong to tenant %d: %w", requestID, tenantID, apperr.ErrNotFound)
	}
	ok, err := w.stores.Requests.DeletePending(ctx, requestID, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("request %d is already decided: %w", requestID, apperr.ErrConflict)
	}
	return nil
}

// GetForUser returns the request when the caller is its tenant or its
// manager.
func (w *Workflow) GetForUser(ctx context.Context, requestID, userID uint) (*models.TerminationRequest, error) {
	req, err := w.stores.Requests.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.TenantID != userID && req.ManagerID != userID {
		return nil, fmt.Errorf("termination request %d: %w", requestID, apperr.ErrNotFound)
	}
	return req, nil
}

// ListForUser returns a tenant's own requests or a manager's queue.
func (w *Workflow) ListForUser(ctx context.Context, userID uint, role string) ([]models.TerminationRequest, error) {
	if role == models.RoleManager {
		return w.stores.Requests.ListByManager(ctx, userID)
	}
	return w.stores.Requests.ListByTenant(ctx, userID)
}
