package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ScheduleOverride - разовая добавка к общему пулу платежей конкретного месяца
type ScheduleOverride struct {
	ID               int64           `json:"id" db:"id"`
	MonthIndex       int             `json:"month_index" db:"month_index"`
	AdditionalAmount decimal.Decimal `json:"additional_amount" db:"additional_amount"`
}

type ScheduleOverrideResponse struct {
	MonthIndex       int    `json:"monthIndex"`
	AdditionalAmount string `json:"additionalAmount"`
}

func (o *ScheduleOverride) ToResponse() ScheduleOverrideResponse {
	return ScheduleOverrideResponse{
		MonthIndex:       o.MonthIndex,
		AdditionalAmount: o.AdditionalAmount.StringFixed(2),
	}
}

type UpsertScheduleOverrideRequest struct {
	AdditionalAmount decimal.Decimal `json:"additionalAmount"`
}

func (r *UpsertScheduleOverrideRequest) Validate() error {
	if r.AdditionalAmount.IsNegative() {
		return fmt.Errorf("additionalAmount must be >= 0")
	}
	return nil
}

// PaymentOverride - фиксированный платеж по долгу в конкретном месяце,
// заменяющий рассчитанное движком распределение
type PaymentOverride struct {
	ID         int64           `json:"id" db:"id"`
	MonthIndex int             `json:"month_index" db:"month_index"`
	DebtID     int64           `json:"debt_id" db:"debt_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Note       *string         `json:"note" db:"note"`
}

type PaymentOverrideResponse struct {
	ID         int64   `json:"id"`
	MonthIndex int     `json:"monthIndex"`
	DebtID     int64   `json:"debtId"`
	Amount     string  `json:"amount"`
	Note       *string `json:"note"`
}

func (o *PaymentOverride) ToResponse() PaymentOverrideResponse {
	return PaymentOverrideResponse{
		ID:         o.ID,
		MonthIndex: o.MonthIndex,
		DebtID:     o.DebtID,
		Amount:     o.Amount.StringFixed(2),
		Note:       o.Note,
	}
}

const maxOverrideNoteLength = 255

type PaymentOverrideEntry struct {
	DebtID int64            `json:"debtId"`
	Amount *decimal.Decimal `json:"amount"`
	Note   *string          `json:"note"`
}

// BulkPaymentOverridesRequest полностью заменяет набор переопределений
// платежей для одного месяца
type BulkPaymentOverridesRequest struct {
	MonthIndex int                    `json:"monthIndex"`
	Overrides  []PaymentOverrideEntry `json:"overrides"`
}

func (r *BulkPaymentOverridesRequest) Validate() error {
	if r.MonthIndex < 1 {
		return fmt.Errorf("monthIndex must be >= 1")
	}
	seen := make(map[int64]struct{}, len(r.Overrides))
	for _, entry := range r.Overrides {
		if entry.DebtID <= 0 {
			return fmt.Errorf("debtId must be > 0")
		}
		if entry.Amount == nil {
			return fmt.Errorf("each override requires debtId and amount")
		}
		if entry.Amount.IsNegative() {
			return fmt.Errorf("amount must be >= 0")
		}
		if entry.Note != nil && len(*entry.Note) > maxOverrideNoteLength {
			return fmt.Errorf("note must be at most %d characters", maxOverrideNoteLength)
		}
		if _, ok := seen[entry.DebtID]; ok {
			return fmt.Errorf("duplicate debtId provided for month")
		}
		seen[entry.DebtID] = struct{}{}
	}
	return nil
}
