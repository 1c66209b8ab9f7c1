package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type SessionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSessionRepository(db *gorm.DB, log *zap.Logger) ports.SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log,
	}
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.ChargingSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.ChargingSession, error) {
	var s domain.ChargingSession
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) FindByChargePoint(ctx context.Context, chargePointID string, limit, offset int) ([]domain.ChargingSession, error) {
	var sessions []domain.ChargingSession
	err := r.db.WithContext(ctx).
		Where("charge_point_id = ?", chargePointID).
		Order("start_time desc").
		Limit(limit).Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) FindActive(ctx context.Context) ([]domain.ChargingSession, error) {
	var sessions []domain.ChargingSession
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.SessionStatusActive).
		Find(&sessions).Error
	return sessions, err
}
