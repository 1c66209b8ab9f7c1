package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type LocationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLocationRepository(db *gorm.DB, log *zap.Logger) ports.LocationRepository {
	return &LocationRepository{
		db:  db,
		log: log,
	}
}

func (r *LocationRepository) Save(ctx context.Context, loc *domain.Location) error {
	result := r.db.WithContext(ctx).Save(loc)
	if result.Error != nil {
		r.log.Error("Failed to save location", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Location, error) {
	var locs []domain.Location
	err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(limit).Offset(offset).
		Find(&locs).Error
	return locs, err
}

func (r *LocationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Location{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
