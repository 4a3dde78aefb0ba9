package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type gormRequestStore struct {
	db *gorm.DB
}

func (s *gormRequestStore) Create(ctx context.Context, r *models.TerminationRequest) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *gormRequestStore) Get(ctx context.Context, id uint) (*models.TerminationRequest, error) {
	var r models.TerminationRequest
	if err := s.db.WithContext(ctx).Preload("Lease").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("termination request %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &r, nil
}

func (s *gormRequestStore) ListByTenant(ctx context.Context, tenantID uint) ([]models.TerminationRequest, error) {
	var requests []models.TerminationRequest
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("requested_date DESC").
		Find(&requests).Error
	return requests, err
}

func (s *gormRequestStore) ListByManager(ctx context.Context, managerID uint) ([]models.TerminationRequest, error) {
	var requests []models.TerminationRequest
	err := s.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("requested_date DESC").
		Find(&requests).Error
	return requests, err
}

func (s *gormRequestStore) Decide(ctx context.Context, id uint, fields map[string]interface{}) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TerminationRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *gormRequestStore) DeletePending(ctx context.Context, id, tenantID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND status = ?", id, tenantID, models.RequestStatusPending).
		Delete(&models.TerminationRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
