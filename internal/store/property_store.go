package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/XuanDongVo/Rental-Home-sub000/internal/apperr"
	"github.com/XuanDongVo/Rental-Home-sub000/models"
)

type gormPropertyStore struct {
	db *gorm.DB
}

func (s *gormPropertyStore) Get(ctx context.Context, id uint) (*models.Property, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %d: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}
