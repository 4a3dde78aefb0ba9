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

type gormLeaseStore struct {
	db *gorm.DB
}

func (s *gormLeaseStore) Get(ctx context.Context, id uint) (*models.Lease, error) {
	var l models.Lease
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lease %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &l, nil
}

func (s *gormLeaseStore) GetActiveOwned(ctx context.Context, id, tenantID uint) (*models.Lease, error) {
	var l models.Lease
	err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND status = ?", id, tenantID, models.LeaseStatusActive).
		First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active lease %d for tenant %d: %w", id, tenantID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &l, nil
}

func (s *gormLeaseStore) Save(ctx context.Context, l *models.Lease) error {
	return s.db.WithContext(ctx).Save(l).Error
}

func (s *gormLeaseStore) ActiveEndingAfter(ctx context.Context, cutoff time.Time) ([]models.Lease, error) {
	var leases []models.Lease
	err := s.db.WithContext(ctx).
		Where("status = ? AND end_date > ?", models.LeaseStatusActive, cutoff).
		Find(&leases).Error
	return leases, err
}
