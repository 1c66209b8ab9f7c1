package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type TariffRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewTariffRepository(db *gorm.DB, log *zap.Logger) ports.TariffRepository {
	return &TariffRepository{
		db:  db,
		log: log,
	}
}

func (r *TariffRepository) Save(ctx context.Context, tariff *domain.Tariff) error {
	result := r.db.WithContext(ctx).Save(tariff)
	if result.Error != nil {
		r.log.Error("Failed to save tariff", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *TariffRepository) FindByID(ctx context.Context, id string) (*domain.Tariff, error) {
	var tariff domain.Tariff
	err := r.db.WithContext(ctx).First(&tariff, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tariff, nil
}

func (r *TariffRepository) FindActive(ctx context.Context) ([]domain.Tariff, error) {
	var tariffs []domain.Tariff
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name asc").Find(&tariffs).Error
	return tariffs, err
}

func (r *TariffRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Tariff, error) {
	var tariffs []domain.Tariff
	err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(limit).Offset(offset).
		Find(&tariffs).Error
	return tariffs, err
}

func (r *TariffRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Tariff{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
