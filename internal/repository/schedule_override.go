package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type ScheduleOverrideRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewScheduleOverrideRepository(db *sql.DB, logger *logrus.Logger) *ScheduleOverrideRepository {
	return &ScheduleOverrideRepository{db: db, logger: logger}
}

func (r *ScheduleOverrideRepository) List(ctx context.Context) ([]model.ScheduleOverride, error) {
	query := `
        SELECT id, month_index, additional_amount
        FROM schedule_overrides
        ORDER BY month_index
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule overrides: %w", err)
	}
	defer rows.Close()

	var overrides []model.ScheduleOverride
	for rows.Next() {
		var override model.ScheduleOverride
		if err := rows.Scan(&override.ID, &override.MonthIndex, &override.AdditionalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan schedule override: %w", err)
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schedule overrides: %w", err)
	}

	return overrides, nil
}

// Upsert stores the additional amount for a month. A zero amount removes the
// override instead of keeping a useless row around.
func (r *ScheduleOverrideRepository) Upsert(ctx context.Context, monthIndex int, amount decimal.Decimal) error {
	if amount.IsZero() {
		return r.Delete(ctx, monthIndex)
	}

	query := `
        INSERT INTO schedule_overrides (month_index, additional_amount)
        VALUES ($1, $2)
        ON CONFLICT (month_index) DO UPDATE SET additional_amount = EXCLUDED.additional_amount
    `

	if _, err := r.db.ExecContext(ctx, query, monthIndex, amount); err != nil {
		return fmt.Errorf("failed to upsert schedule override: %w", err)
	}

	return nil
}

func (r *ScheduleOverrideRepository) Delete(ctx context.Context, monthIndex int) error {
	query := `DELETE FROM schedule_overrides WHERE month_index = $1`
	if _, err := r.db.ExecContext(ctx, query, monthIndex); err != nil {
		return fmt.Errorf("failed to delete schedule override: %w", err)
	}
	return nil
}
