package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type PartyRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPartyRepository(db *gorm.DB, log *zap.Logger) ports.PartyRepository {
	return &PartyRepository{
		db:  db,
		log: log,
	}
}

func (r *PartyRepository) Save(ctx context.Context, party *domain.Party) error {
	result := r.db.WithContext(ctx).Save(party)
	if result.Error != nil {
		r.log.Error("Failed to save party", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *PartyRepository) FindByID(ctx context.Context, id string) (*domain.Party, error) {
	var party domain.Party
	err := r.db.WithContext(ctx).First(&party, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

func (r *PartyRepository) FindByPartyID(ctx context.Context, countryCode, partyID string) (*domain.Party, error) {
	var party domain.Party
	err := r.db.WithContext(ctx).
		First(&party, "country_code = ? AND party_id = ?", countryCode, partyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &party, nil
}

func (r *PartyRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Party, error) {
	var parties []domain.Party
	err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(limit).Offset(offset).
		Find(&parties).Error
	return parties, err
}

func (r *PartyRepository) UpdateStatus(ctx context.Context, id string, status domain.PartyStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Party{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Party{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
