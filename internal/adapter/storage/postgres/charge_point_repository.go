package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type ChargePointRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewChargePointRepository(db *gorm.DB, log *zap.Logger) ports.ChargePointRepository {
	return &ChargePointRepository{
		db:  db,
		log: log,
	}
}

func (r *ChargePointRepository) Save(ctx context.Context, cp *domain.ChargePoint) error {
	result := r.db.WithContext(ctx).Save(cp)
	if result.Error != nil {
		r.log.Error("Failed to save charge point", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *ChargePointRepository) FindByID(ctx context.Context, id string) (*domain.ChargePoint, error) {
	var cp domain.ChargePoint
	result := r.db.WithContext(ctx).Preload("Connectors").Preload("Location").First(&cp, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, result.Error
	}
	return &cp, nil
}

func (r *ChargePointRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.ChargePoint, error) {
	var cps []domain.ChargePoint
	query := r.db.WithContext(ctx).Preload("Connectors").Preload("Location")
	if status, ok := filter["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if locationID, ok := filter["location_id"]; ok {
		query = query.Where("location_id = ?", locationID)
	}

	result := query.Find(&cps)
	if result.Error != nil {
		return nil, result.Error
	}
	return cps, nil
}

func (r *ChargePointRepository) UpdateStatus(ctx context.Context, id string, status domain.ChargePointStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.ChargePoint{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
