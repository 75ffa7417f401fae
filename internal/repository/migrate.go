package repository

import (
	"database/sql"
	"fmt"
)

// Migrate bootstraps the schema. Statements are idempotent so the server can
// run it on every start.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY,
			balance_date DATE NOT NULL DEFAULT CURRENT_DATE,
			monthly_budget NUMERIC(12,2) NOT NULL DEFAULT 0,
			strategy VARCHAR(20) NOT NULL DEFAULT 'avalanche'
		)`,
		`CREATE TABLE IF NOT EXISTS debts (
			id BIGSERIAL PRIMARY KEY,
			creditor VARCHAR(100) NOT NULL,
			balance NUMERIC(12,2) NOT NULL,
			apr DOUBLE PRECISION NOT NULL,
			minimum_payment NUMERIC(12,2) NOT NULL,
			custom_priority INTEGER,
			"position" INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_overrides (
			id BIGSERIAL PRIMARY KEY,
			month_index INTEGER NOT NULL UNIQUE,
			additional_amount NUMERIC(12,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS payment_overrides (
			id BIGSERIAL PRIMARY KEY,
			month_index INTEGER NOT NULL,
			debt_id BIGINT NOT NULL REFERENCES debts(id) ON DELETE CASCADE,
			amount NUMERIC(12,2) NOT NULL,
			note VARCHAR(255),
			CONSTRAINT uix_payment_override_month_debt UNIQUE (month_index, debt_id)
		)`,
		`CREATE TABLE IF NOT EXISTS plan_snapshots (
			id BIGSERIAL PRIMARY KEY,
			strategy VARCHAR(20) NOT NULL,
			total_interest NUMERIC(12,2) NOT NULL,
			total_months INTEGER NOT NULL,
			min_payments_sum NUMERIC(12,2) NOT NULL,
			initial_snowball NUMERIC(12,2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
