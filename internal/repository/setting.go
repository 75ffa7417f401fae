package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// The planner keeps a single settings row.
const settingsRowID = 1

type SettingRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewSettingRepository(db *sql.DB, logger *logrus.Logger) *SettingRepository {
	return &SettingRepository{db: db, logger: logger}
}

// Get returns the settings row, creating the defaults on first access.
func (r *SettingRepository) Get(ctx context.Context) (*model.Setting, error) {
	setting, err := r.fetch(ctx)
	if err == nil {
		return setting, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	query := `
        INSERT INTO settings (id, balance_date, monthly_budget, strategy)
        VALUES ($1, CURRENT_DATE, 0, $2)
        ON CONFLICT (id) DO NOTHING
    `
	if _, err := r.db.ExecContext(ctx, query, settingsRowID, model.StrategyAvalanche); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	setting, err = r.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return setting, nil
}

func (r *SettingRepository) fetch(ctx context.Context) (*model.Setting, error) {
	query := `
        SELECT id, balance_date, monthly_budget, strategy
        FROM settings
        WHERE id = $1
    `

	var setting model.Setting
	err := r.db.QueryRowContext(ctx, query, settingsRowID).Scan(
		&setting.ID,
		&setting.BalanceDate,
		&setting.MonthlyBudget,
		&setting.Strategy,
	)
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

func (r *SettingRepository) Update(ctx context.Context, setting *model.Setting) error {
	query := `
        UPDATE settings
        SET balance_date = $1,
            monthly_budget = $2,
            strategy = $3
        WHERE id = $4
    `

	_, err := r.db.ExecContext(
		ctx,
		query,
		setting.BalanceDate,
		setting.MonthlyBudget,
		setting.Strategy,
		settingsRowID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}
