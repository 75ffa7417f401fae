package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanMonth - запись одного смоделированного месяца. Все денежные значения -
// строки с ровно двумя знаками после запятой; карты ключуются строковым id долга.
type PlanMonth struct {
	MonthIndex              int               `json:"monthIndex"`
	MonthLabel              string            `json:"monthLabel"`
	DateISO                 string            `json:"dateISO"`
	InterestAccrued         string            `json:"interestAccrued"`
	SnowballAmount          string            `json:"snowballAmount"`
	AdditionalAmount        string            `json:"additionalAmount"`
	DefaultPayments         map[string]string `json:"defaultPayments"`
	Payments                map[string]string `json:"payments"`
	RemainingBalances       map[string]string `json:"remainingBalances"`
	PaymentOverrideWarnings []string          `json:"paymentOverrideWarnings,omitempty"`
}

// DebtSummary - итог по одному долгу после завершения симуляции
type DebtSummary struct {
	ID               int64   `json:"id"`
	Creditor         string  `json:"creditor"`
	InitialBalance   string  `json:"initialBalance"`
	InterestPaid     string  `json:"interestPaid"`
	MonthsToPayoff   int     `json:"monthsToPayoff"`
	PayoffMonthLabel *string `json:"payoffMonthLabel"`
}

type PlanTotals struct {
	TotalInterest  string `json:"totalInterest"`
	TotalMonths    int    `json:"totalMonths"`
	MinPaymentsSum string `json:"minPaymentsSum"`
	// MinimumMonthlyPayment дублирует MinPaymentsSum, поле сохранено для
	// совместимости со старыми клиентами
	MinimumMonthlyPayment string `json:"minimumMonthlyPayment"`
	InitialSnowball       string `json:"initialSnowball"`
}

type PlanResult struct {
	Months []PlanMonth   `json:"months"`
	Debts  []DebtSummary `json:"debts"`
	Totals PlanTotals    `json:"totals"`
}

// PlanSnapshot - сохраненный итог планового расчета (создается планировщиком)
type PlanSnapshot struct {
	ID              int64           `json:"id" db:"id"`
	Strategy        string          `json:"strategy" db:"strategy"`
	TotalInterest   decimal.Decimal `json:"total_interest" db:"total_interest"`
	TotalMonths     int             `json:"total_months" db:"total_months"`
	MinPaymentsSum  decimal.Decimal `json:"min_payments_sum" db:"min_payments_sum"`
	InitialSnowball decimal.Decimal `json:"initial_snowball" db:"initial_snowball"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type PlanSnapshotResponse struct {
	ID              int64  `json:"id"`
	Strategy        string `json:"strategy"`
	TotalInterest   string `json:"totalInterest"`
	TotalMonths     int    `json:"totalMonths"`
	MinPaymentsSum  string `json:"minPaymentsSum"`
	InitialSnowball string `json:"initialSnowball"`
	CreatedAt       string `json:"createdAt"`
}

func (s *PlanSnapshot) ToResponse() PlanSnapshotResponse {
	return PlanSnapshotResponse{
		ID:              s.ID,
		Strategy:        s.Strategy,
		TotalInterest:   s.TotalInterest.StringFixed(2),
		TotalMonths:     s.TotalMonths,
		MinPaymentsSum:  s.MinPaymentsSum.StringFixed(2),
		InitialSnowball: s.InitialSnowball.StringFixed(2),
		CreatedAt:       s.CreatedAt.Format(time.RFC3339),
	}
}
