package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type gormPaymentLedger struct {
	db *gorm.DB
}

func (l *gormPaymentLedger) Create(ctx context.Context, p *models.Payment) error {
	if err := l.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("payment for lease %d period already exists: %w", p.LeaseID, apperr.ErrConflict)
		}
		return err
	}
	return nil
}

func (l *gormPaymentLedger) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := l.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (l *gormPaymentLedger) Save(ctx context.Context, p *models.Payment) error {
	return l.db.WithContext(ctx).Save(p).Error
}

func (l *gormPaymentLedger) FindByPeriod(ctx context.Context, leaseID uint, monthStart time.Time) (*models.Payment, error) {
	next := monthStart.AddDate(0, 1, 0)
	var p models.Payment
	err := l.db.WithContext(ctx).
		Where("lease_id = ? AND period_start IS NOT NULL AND period_start >= ? AND period_start < ?", leaseID, monthStart, next).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment for lease %d month %s: %w", leaseID, monthStart.Format("2006-01"), apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (l *gormPaymentLedger) ListByLease(ctx context.Context, leaseID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (l *gormPaymentLedger) ListByProperty(ctx context.Context, propertyID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Joins("JOIN leases ON leases.id = payments.lease_id").
		Where("leases.property_id = ?", propertyID).
		Order("payments.due_date ASC").
		Find(&payments).Error
	return payments, err
}

func (l *gormPaymentLedger) ListAll(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Preload("Lease").
		Order("due_date DESC").
		Find(&payments).Error
	return payments, err
}

func (l *gormPaymentLedger) Latest(ctx context.Context, leaseID uint) (*models.Payment, error) {
	var p models.Payment
	err := l.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("due_date DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no payments for lease %d: %w", leaseID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (l *gormPaymentLedger) OpenDueBefore(ctx context.Context, cutoff time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("due_date < ? AND payment_status IN ?", cutoff,
			[]string{models.PaymentStatusPending, models.PaymentStatusPartiallyPaid}).
		Find(&payments).Error
	return payments, err
}

func (l *gormPaymentLedger) PendingDueBetween(ctx context.Context, from, to time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := l.db.WithContext(ctx).
		Where("due_date >= ? AND due_date < ? AND payment_status = ?", from, to, models.PaymentStatusPending).
		Find(&payments).Error
	return payments, err
}

func (l *gormPaymentLedger) TransitionOverdue(ctx context.Context, id uint) (bool, error) {
	res := l.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND payment_status IN ?", id,
			[]string{models.PaymentStatusPending, models.PaymentStatusPartiallyPaid}).
		Update("payment_status", models.PaymentStatusOverdue)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
