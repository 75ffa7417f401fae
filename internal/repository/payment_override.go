package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type PaymentOverrideRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewPaymentOverrideRepository(db *sql.DB, logger *logrus.Logger) *PaymentOverrideRepository {
	return &PaymentOverrideRepository{db: db, logger: logger}
}

func (r *PaymentOverrideRepository) List(ctx context.Context) ([]model.PaymentOverride, error) {
	query := `
        SELECT id, month_index, debt_id, amount, note
        FROM payment_overrides
        ORDER BY month_index, debt_id
    `
	return r.queryOverrides(ctx, query)
}

func (r *PaymentOverrideRepository) ListByMonth(ctx context.Context, monthIndex int) ([]model.PaymentOverride, error) {
	query := `
        SELECT id, month_index, debt_id, amount, note
        FROM payment_overrides
        WHERE month_index = $1
        ORDER BY debt_id
    `
	return r.queryOverrides(ctx, query, monthIndex)
}

func (r *PaymentOverrideRepository) queryOverrides(ctx context.Context, query string, args ...interface{}) ([]model.PaymentOverride, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment overrides: %w", err)
	}
	defer rows.Close()

	var overrides []model.PaymentOverride
	for rows.Next() {
		var override model.PaymentOverride
		var note sql.NullString
		if err := rows.Scan(
			&override.ID,
			&override.MonthIndex,
			&override.DebtID,
			&override.Amount,
			&note,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment override: %w", err)
		}
		if note.Valid {
			override.Note = &note.String
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment overrides: %w", err)
	}

	return overrides, nil
}

// ReplaceMonth makes the stored overrides for a month exactly match entries:
// listed pairs are upserted, everything else for that month is removed.
func (r *PaymentOverrideRepository) ReplaceMonth(ctx context.Context, monthIndex int, entries []model.PaymentOverride) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
        INSERT INTO payment_overrides (month_index, debt_id, amount, note)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT ON CONSTRAINT uix_payment_override_month_debt
        DO UPDATE SET amount = EXCLUDED.amount, note = EXCLUDED.note
    `

	keepIDs := make([]int64, 0, len(entries))
	for _, entry := range entries {
		var note sql.NullString
		if entry.Note != nil {
			note = sql.NullString{String: *entry.Note, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, upsert, monthIndex, entry.DebtID, entry.Amount, note); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "foreign_key_violation" {
				return fmt.Errorf("debt %d not found", entry.DebtID)
			}
			return fmt.Errorf("failed to upsert payment override: %w", err)
		}
		keepIDs = append(keepIDs, entry.DebtID)
	}

	prune := `
        DELETE FROM payment_overrides
        WHERE month_index = $1 AND NOT (debt_id = ANY($2))
    `
	if _, err := tx.ExecContext(ctx, prune, monthIndex, pq.Array(keepIDs)); err != nil {
		return fmt.Errorf("failed to prune payment overrides: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment overrides: %w", err)
	}

	return nil
}

func (r *PaymentOverrideRepository) Delete(ctx context.Context, monthIndex int, debtID int64) error {
	query := `DELETE FROM payment_overrides WHERE month_index = $1 AND debt_id = $2`

	result, err := r.db.ExecContext(ctx, query, monthIndex, debtID)
	if err != nil {
		return fmt.Errorf("failed to delete payment override: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete payment override: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("override not found")
	}

	return nil
}
