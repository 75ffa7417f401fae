package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type PlanSnapshotRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPlanSnapshotRepository(db *sql.DB, logger *logrus.Logger) *PlanSnapshotRepository {
	return &PlanSnapshotRepository{db: db, logger: logger}
}

func (r *PlanSnapshotRepository) Create(ctx context.Context, snapshot *model.PlanSnapshot) error {
	query := `
        INSERT INTO plan_snapshots (strategy, total_interest, total_months, min_payments_sum, initial_snowball)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

	err := r.db.QueryRowContext(
		ctx,
		query,
		snapshot.Strategy,
		snapshot.TotalInterest,
		snapshot.TotalMonths,
		snapshot.MinPaymentsSum,
		snapshot.InitialSnowball,
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan snapshot: %w", err)
	}

	return nil
}

func (r *PlanSnapshotRepository) ListRecent(ctx context.Context, limit int) ([]model.PlanSnapshot, error) {
	query := `
        SELECT id, strategy, total_interest, total_months, min_payments_sum, initial_snowball, created_at
        FROM plan_snapshots
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []model.PlanSnapshot
	for rows.Next() {
		var snapshot model.PlanSnapshot
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.Strategy,
			&snapshot.TotalInterest,
			&snapshot.TotalMonths,
			&snapshot.MinPaymentsSum,
			&snapshot.InitialSnowball,
			&snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan plan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read plan snapshots: %w", err)
	}

	return snapshots, nil
}
