package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

type DebtRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewDebtRepository(db *sql.DB, logger *logrus.Logger) *DebtRepository {
	return &DebtRepository{db: db, logger: logger}
}

// List returns all debts in entry order.
func (r *DebtRepository) List(ctx context.Context) ([]model.Debt, error) {
	query := `
        SELECT id, creditor, balance, apr, minimum_payment, custom_priority, "position"
        FROM debts
        ORDER BY "position"
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	var debts []model.Debt
	for rows.Next() {
		var debt model.Debt
		var priority sql.NullInt64
		if err := rows.Scan(
			&debt.ID,
			&debt.Creditor,
			&debt.Balance,
			&debt.APR,
			&debt.MinimumPayment,
			&priority,
			&debt.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if priority.Valid {
			value := int(priority.Int64)
			debt.CustomPriority = &value
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read debts: %w", err)
	}

	return debts, nil
}

func (r *DebtRepository) GetByID(ctx context.Context, id int64) (*model.Debt, error) {
	query := `
        SELECT id, creditor, balance, apr, minimum_payment, custom_priority, "position"
        FROM debts
        WHERE id = $1
    `

	var debt model.Debt
	var priority sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&debt.ID,
		&debt.Creditor,
		&debt.Balance,
		&debt.APR,
		&debt.MinimumPayment,
		&priority,
		&debt.Position,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("debt not found")
		}
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	if priority.Valid {
		value := int(priority.Int64)
		debt.CustomPriority = &value
	}

	return &debt, nil
}

// Create inserts the debt at the end of the entry order and fills in the
// generated id and position.
func (r *DebtRepository) Create(ctx context.Context, debt *model.Debt) error {
	query := `
        INSERT INTO debts (creditor, balance, apr, minimum_payment, custom_priority, "position")
        VALUES ($1, $2, $3, $4, $5, COALESCE((SELECT MAX("position") FROM debts), 0) + 1)
        RETURNING id, "position"
    `

	var priority sql.NullInt64
	if debt.CustomPriority != nil {
		priority = sql.NullInt64{Int64: int64(*debt.CustomPriority), Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		debt.Creditor,
		debt.Balance,
		debt.APR,
		debt.MinimumPayment,
		priority,
	).Scan(&debt.ID, &debt.Position)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}

	return nil
}

func (r *DebtRepository) Update(ctx context.Context, debt *model.Debt) error {
	query := `
        UPDATE debts
        SET creditor = $1,
            balance = $2,
            apr = $3,
            minimum_payment = $4,
            custom_priority = $5
        WHERE id = $6
    `

	var priority sql.NullInt64
	if debt.CustomPriority != nil {
		priority = sql.NullInt64{Int64: int64(*debt.CustomPriority), Valid: true}
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		debt.Creditor,
		debt.Balance,
		debt.APR,
		debt.MinimumPayment,
		priority,
		debt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("debt not found")
	}

	return nil
}

func (r *DebtRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("debt not found")
	}

	return nil
}

// Reorder rewrites entry positions to match idsInOrder. Unknown ids are
// skipped so a stale client list cannot fail the whole reorder.
func (r *DebtRepository) Reorder(ctx context.Context, idsInOrder []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE debts SET "position" = $1 WHERE id = $2`
	for position, id := range idsInOrder {
		if _, err := tx.ExecContext(ctx, query, position, id); err != nil {
			return fmt.Errorf("failed to reorder debt %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}

// ExistingIDs returns the set of known debt ids.
func (r *DebtRepository) ExistingIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM debts`)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan debt id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read debt ids: %w", err)
	}

	return ids, nil
}
