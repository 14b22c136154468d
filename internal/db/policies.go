// SLA 정책 설정 저장/조회 (단일 row)

package db

import (
	"context"

	"github.com/itil-bridge/backend/internal/model"
)

// SeedSLAPolicy - 환경변수 기본값으로 초기 row 생성 (이미 있으면 건드리지 않음)
func (db *Store) SeedSLAPolicy(ctx context.Context, p model.SLAPolicy) error {
	query := `
		INSERT INTO sla_policy (id, critical_minutes, high_minutes, medium_minutes, low_minutes, sweep_interval_minutes)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	_, err := db.Pool.Exec(ctx, query,
		p.CriticalMinutes, p.HighMinutes, p.MediumMinutes, p.LowMinutes, p.SweepIntervalMinutes)
	return err
}

func (db *Store) GetSLAPolicy(ctx context.Context) (*model.SLAPolicy, error) {
	query := `
		SELECT critical_minutes, high_minutes, medium_minutes, low_minutes, sweep_interval_minutes
		FROM sla_policy WHERE id = 1`

	var p model.SLAPolicy
	err := db.Pool.QueryRow(ctx, query).Scan(
		&p.CriticalMinutes, &p.HighMinutes, &p.MediumMinutes, &p.LowMinutes, &p.SweepIntervalMinutes)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *Store) UpdateSLAPolicy(ctx context.Context, p model.SLAPolicy) error {
	query := `
		UPDATE sla_policy
		SET critical_minutes = $1, high_minutes = $2, medium_minutes = $3,
		    low_minutes = $4, sweep_interval_minutes = $5, updated_at = NOW()
		WHERE id = 1`

	_, err := db.Pool.Exec(ctx, query,
		p.CriticalMinutes, p.HighMinutes, p.MediumMinutes, p.LowMinutes, p.SweepIntervalMinutes)
	return err
}
