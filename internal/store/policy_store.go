package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type gormPolicyStore struct {
	db *gorm.DB
}

func (s *gormPolicyStore) Get(ctx context.Context, id uint) (*models.TerminationPolicy, error) {
	var p models.TerminationPolicy
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("termination policy %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormPolicyStore) GetActive(ctx context.Context, propertyID uint) (*models.TerminationPolicy, error) {
	var p models.TerminationPolicy
	err := s.db.WithContext(ctx).
		Where("property_id = ? AND is_active = ?", propertyID, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no active policy for property %d: %w", propertyID, apperr.ErrNotFound)
		}
		return nil, err
	}
	if err := p.PenaltyRules.Validate(); err != nil {
		// A row written before validation existed. Refuse to hand the engine
		// malformed rules.
		return nil, fmt.Errorf("stored policy %d has malformed rules: %v: %w", p.ID, err, apperr.ErrInvalidInput)
	}
	return &p, nil
}

func (s *gormPolicyStore) EnsureActive(ctx context.Context, propertyID uint, provision func() *models.TerminationPolicy) (*models.TerminationPolicy, error) {
	active, err := s.GetActive(ctx, propertyID)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	// Provision the default inside a transaction, re-checking first. The
	// re-check is not enough on its own at read-committed isolation, so the
	// partial unique index on (property_id) WHERE is_active is the backstop:
	// the losing provisioner's insert fails and it re-reads the winner.
	var out *models.TerminationPolicy
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.TerminationPolicy
		txErr := tx.Where("property_id = ? AND is_active = ?", propertyID, true).First(&existing).Error
		if txErr == nil {
			out = &existing
			return nil
		}
		if !errors.Is(txErr, gorm.ErrRecordNotFound) {
			return txErr
		}
		def := provision()
		def.PropertyID = propertyID
		def.IsActive = true
		if txErr := tx.Create(def).Error; txErr != nil {
			return txErr
		}
		out = def
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.GetActive(ctx, propertyID)
		}
		return nil, err
	}
	return out, nil
}

func (s *gormPolicyStore) Create(ctx context.Context, p *models.TerminationPolicy) error {
	if p.PropertyID == 0 {
		return fmt.Errorf("policy requires a property: %w", apperr.ErrInvalidInput)
	}
	if err := p.PenaltyRules.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrInvalidInput)
	}
	if p.MinimumNoticeDays < 0 {
		return fmt.Errorf("minimumNoticeDays must be >= 0: %w", apperr.ErrInvalidInput)
	}

	// Deactivate-then-insert against the partial unique index: a concurrent
	// writer that sneaks an active row in between surfaces as a duplicate
	// key, not a second active policy.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.TerminationPolicy{}).
			Where("property_id = ? AND is_active = ?", p.PropertyID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		p.IsActive = true
		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("active policy for property %d changed concurrently: %w", p.PropertyID, apperr.ErrConflict)
			}
			return err
		}
		return nil
	})
}

func (s *gormPolicyStore) List(ctx context.Context, propertyID uint, activeOnly bool) ([]models.TerminationPolicy, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if propertyID != 0 {
		query = query.Where("property_id = ?", propertyID)
	}
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var policies []models.TerminationPolicy
	err := query.Find(&policies).Error
	return policies, err
}

func (s *gormPolicyStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.TerminationPolicy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("termination policy %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}
