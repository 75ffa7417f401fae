package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Debt struct {
	ID             int64           `json:"id" db:"id"`
	Creditor       string          `json:"creditor" db:"creditor"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	APR            float64         `json:"apr" db:"apr"`
	MinimumPayment decimal.Decimal `json:"minimum_payment" db:"minimum_payment"`
	CustomPriority *int            `json:"custom_priority" db:"custom_priority"`
	Position       int             `json:"position" db:"position"`
}

type DebtResponse struct {
	ID             int64   `json:"id"`
	Creditor       string  `json:"creditor"`
	Balance        string  `json:"balance"`
	APR            float64 `json:"apr"`
	MinimumPayment string  `json:"minimumPayment"`
	CustomPriority *int    `json:"customPriority"`
	Position       int     `json:"position"`
}

func (d *Debt) ToResponse() DebtResponse {
	return DebtResponse{
		ID:             d.ID,
		Creditor:       d.Creditor,
		Balance:        d.Balance.StringFixed(2),
		APR:            d.APR,
		MinimumPayment: d.MinimumPayment.StringFixed(2),
		CustomPriority: d.CustomPriority,
		Position:       d.Position,
	}
}

type CreateDebtRequest struct {
	Creditor       string           `json:"creditor"`
	Balance        *decimal.Decimal `json:"balance"`
	APR            *float64         `json:"apr"`
	MinimumPayment *decimal.Decimal `json:"minimumPayment"`
	CustomPriority *int             `json:"customPriority"`
}

func (r *CreateDebtRequest) Validate() error {
	if r.Creditor == "" {
		return fmt.Errorf("creditor is required")
	}
	if r.Balance == nil {
		return fmt.Errorf("balance is required")
	}
	if r.Balance.IsNegative() {
		return fmt.Errorf("balance must be >= 0")
	}
	if r.APR == nil {
		return fmt.Errorf("apr is required")
	}
	if *r.APR < 0 {
		return fmt.Errorf("apr must be >= 0")
	}
	if r.MinimumPayment == nil {
		return fmt.Errorf("minimumPayment is required")
	}
	if r.MinimumPayment.IsNegative() {
		return fmt.Errorf("minimumPayment must be >= 0")
	}
	return nil
}

// UpdateDebtRequest - частичное обновление долга. Для customPriority важно
// различать отсутствующее поле и явный null (null сбрасывает приоритет),
// поэтому используется собственный UnmarshalJSON.
type UpdateDebtRequest struct {
	Creditor       *string
	Balance        *decimal.Decimal
	APR            *float64
	MinimumPayment *decimal.Decimal
	CustomPriority *int
	// CustomPrioritySet выставляется, если поле customPriority присутствовало
	// в запросе (в том числе как null)
	CustomPrioritySet bool
}

func (r *UpdateDebtRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Creditor       *string          `json:"creditor"`
		Balance        *decimal.Decimal `json:"balance"`
		APR            *float64         `json:"apr"`
		MinimumPayment *decimal.Decimal `json:"minimumPayment"`
		CustomPriority json.RawMessage  `json:"customPriority"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Creditor = raw.Creditor
	r.Balance = raw.Balance
	r.APR = raw.APR
	r.MinimumPayment = raw.MinimumPayment

	if raw.CustomPriority != nil {
		r.CustomPrioritySet = true
		if string(raw.CustomPriority) != "null" {
			var priority int
			if err := json.Unmarshal(raw.CustomPriority, &priority); err != nil {
				return fmt.Errorf("customPriority must be an integer: %w", err)
			}
			r.CustomPriority = &priority
		}
	}

	return nil
}

func (r *UpdateDebtRequest) Validate() error {
	if r.Creditor != nil && *r.Creditor == "" {
		return fmt.Errorf("creditor must not be empty")
	}
	if r.Balance != nil && r.Balance.IsNegative() {
		return fmt.Errorf("balance must be >= 0")
	}
	if r.APR != nil && *r.APR < 0 {
		return fmt.Errorf("apr must be >= 0")
	}
	if r.MinimumPayment != nil && r.MinimumPayment.IsNegative() {
		return fmt.Errorf("minimumPayment must be >= 0")
	}
	return nil
}

type ReorderDebtsRequest struct {
	IDsInOrder []int64 `json:"idsInOrder"`
}

func (r *ReorderDebtsRequest) Validate() error {
	if len(r.IDsInOrder) == 0 {
		return fmt.Errorf("idsInOrder must be a non-empty list")
	}
	seen := make(map[int64]struct{}, len(r.IDsInOrder))
	for _, id := range r.IDsInOrder {
		if id <= 0 {
			return fmt.Errorf("idsInOrder contains an invalid id")
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("idsInOrder contains duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
