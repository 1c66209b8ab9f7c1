package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voltgrid/opsconsole/internal/domain"
	"github.com/voltgrid/opsconsole/internal/ports"
)

type AnalyticsRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAnalyticsRepository(db *gorm.DB, log *zap.Logger) ports.AnalyticsRepository {
	return &AnalyticsRepository{
		db:  db,
		log: log,
	}
}

// MonthlyUsage aggregates completed sessions into per-month totals. Energy is
// converted from the Wh meter delta to kWh in SQL so callers never see raw
// meter values.
func (r *AnalyticsRepository) MonthlyUsage(ctx context.Context, months int) ([]domain.UsagePeriodRecord, error) {
	if months <= 0 {
		months = 12
	}

	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('month', start_time), 'YYYY-MM') AS label,
			COALESCE(SUM(GREATEST(meter_stop - meter_start, 0)) / 1000.0, 0) AS total_energy,
			COALESCE(SUM(cost), 0) AS total_revenue,
			COUNT(*) AS session_count
		FROM charging_sessions
		WHERE status = ?
		  AND start_time >= DATE_TRUNC('month', NOW()) - (? * INTERVAL '1 month')
		GROUP BY 1
		ORDER BY 1 ASC
	`

	var records []domain.UsagePeriodRecord
	result := r.db.WithContext(ctx).Raw(query, domain.SessionStatusCompleted, months).Scan(&records)
	if result.Error != nil {
		r.log.Error("Failed to aggregate monthly usage", zap.Error(result.Error))
		return nil, result.Error
	}
	return records, nil
}

// YearlyUsage aggregates completed sessions into per-year totals.
func (r *AnalyticsRepository) YearlyUsage(ctx context.Context, years int) ([]domain.UsagePeriodRecord, error) {
	if years <= 0 {
		years = 5
	}

	query := `
		SELECT
			TO_CHAR(DATE_TRUNC('year', start_time), 'YYYY') AS label,
			COALESCE(SUM(GREATEST(meter_stop - meter_start, 0)) / 1000.0, 0) AS total_energy,
			COALESCE(SUM(cost), 0) AS total_revenue,
			COUNT(*) AS session_count
		FROM charging_sessions
		WHERE status = ?
		  AND start_time >= DATE_TRUNC('year', NOW()) - (? * INTERVAL '1 year')
		GROUP BY 1
		ORDER BY 1 ASC
	`

	var records []domain.UsagePeriodRecord
	result := r.db.WithContext(ctx).Raw(query, domain.SessionStatusCompleted, years).Scan(&records)
	if result.Error != nil {
		r.log.Error("Failed to aggregate yearly usage", zap.Error(result.Error))
		return nil, result.Error
	}
	return records, nil
}

// ChargePointUtilization builds the per-station utilization read model over
// the window. Availability derives from the station status; utilization is
// active hours over window hours.
func (r *AnalyticsRepository) ChargePointUtilization(ctx context.Context, from, to time.Time) ([]domain.EntityUtilizationRecord, error) {
	windowHours := to.Sub(from).Hours()
	if windowHours <= 0 {
		windowHours = 1
	}

	query := `
		SELECT
			cp.id AS id,
			COALESCE(NULLIF(cp.model, ''), cp.id) AS name,
			COALESCE(l.name, '') AS location,
			(cp.status <> ?) AS is_online,
			COUNT(s.id) AS sessions,
			COALESCE(SUM(GREATEST(s.meter_stop - s.meter_start, 0)) / 1000.0, 0) AS energy_delivered,
			COALESCE(SUM(s.cost), 0) AS revenue,
			COALESCE(SUM(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600.0), 0) AS hours_active,
			CASE WHEN cp.status = ? THEN 0 ELSE 100 END AS availability_rate,
			LEAST(COALESCE(SUM(EXTRACT(EPOCH FROM (s.end_time - s.start_time)) / 3600.0), 0) / ? * 100, 100) AS utilization_rate,
			(SELECT COUNT(*) FROM connectors c WHERE c.charge_point_id = cp.id) AS connector_count,
			COALESCE(MAX(s.start_time), 'epoch'::timestamptz) AS last_session
		FROM charge_points cp
		LEFT JOIN locations l ON l.id = cp.location_id
		LEFT JOIN charging_sessions s
			ON s.charge_point_id = cp.id
			AND s.status = ?
			AND s.start_time >= ?
			AND s.start_time < ?
		GROUP BY cp.id, cp.model, cp.status, l.name
		ORDER BY cp.id ASC
	`

	var records []domain.EntityUtilizationRecord
	result := r.db.WithContext(ctx).Raw(
		query,
		domain.ChargePointStatusUnavailable,
		domain.ChargePointStatusUnavailable,
		windowHours,
		domain.SessionStatusCompleted,
		from, to,
	).Scan(&records)
	if result.Error != nil {
		r.log.Error("Failed to aggregate charge point utilization",
			zap.Time("from", from),
			zap.Time("to", to),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return records, nil
}

// UserActivity builds the per-user activity read model over the window.
func (r *AnalyticsRepository) UserActivity(ctx context.Context, from, to time.Time) ([]domain.UserActivityRecord, error) {
	query := `
		SELECT
			u.id AS id,
			u.name AS name,
			COALESCE((
				SELECT l.name
				FROM charging_sessions s2
				JOIN charge_points cp ON cp.id = s2.charge_point_id
				JOIN locations l ON l.id = cp.location_id
				WHERE s2.user_id = u.id
				ORDER BY s2.start_time DESC
				LIMIT 1
			), '') AS location,
			TO_CHAR(MAX(s.start_time), 'YYYY-MM-DD') AS date,
			COUNT(s.id) AS sessions,
			COALESCE(SUM(GREATEST(s.meter_stop - s.meter_start, 0)) / 1000.0, 0) AS energy_consumed,
			1 AS active_users,
			LEAST(COUNT(s.id) * 100.0 / GREATEST(?, 1), 100) AS utilization
		FROM users u
		JOIN charging_sessions s
			ON s.user_id = u.id
			AND s.status = ?
			AND s.start_time >= ?
			AND s.start_time < ?
		GROUP BY u.id, u.name
		ORDER BY u.id ASC
	`

	windowDays := int(to.Sub(from).Hours() / 24)

	var records []domain.UserActivityRecord
	result := r.db.WithContext(ctx).Raw(
		query,
		windowDays,
		domain.SessionStatusCompleted,
		from, to,
	).Scan(&records)
	if result.Error != nil {
		r.log.Error("Failed to aggregate user activity",
			zap.Time("from", from),
			zap.Time("to", to),
			zap.Error(result.Error),
		)
		return nil, result.Error
	}
	return records, nil
}
