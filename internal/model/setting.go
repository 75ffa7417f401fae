package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Стратегии погашения, распознаваемые движком симуляции
const (
	StrategyAvalanche = "avalanche" // сначала самый высокий APR
	StrategySnowball  = "snowball"  // сначала самый маленький остаток
	StrategyEntered   = "entered"   // в порядке добавления
	StrategyCustom    = "custom"    // по пользовательскому приоритету
)

func IsValidStrategy(strategy string) bool {
	switch strategy {
	case StrategyAvalanche, StrategySnowball, StrategyEntered, StrategyCustom:
		return true
	}
	return false
}

// DateLayout - формат дат во внешнем API (ISO, без времени)
const DateLayout = "2006-01-02"

type Setting struct {
	ID            int64           `json:"id" db:"id"`
	BalanceDate   time.Time       `json:"balance_date" db:"balance_date"`
	MonthlyBudget decimal.Decimal `json:"monthly_budget" db:"monthly_budget"`
	Strategy      string          `json:"strategy" db:"strategy"`
}

// SettingResponse - представление настроек во внешнем API.
// Денежные поля сериализуются строками с двумя знаками после запятой.
type SettingResponse struct {
	BalanceDate   string `json:"balanceDate"`
	MonthlyBudget string `json:"monthlyBudget"`
	Strategy      string `json:"strategy"`
}

func (s *Setting) ToResponse() SettingResponse {
	return SettingResponse{
		BalanceDate:   s.BalanceDate.Format(DateLayout),
		MonthlyBudget: s.MonthlyBudget.StringFixed(2),
		Strategy:      s.Strategy,
	}
}

type UpdateSettingRequest struct {
	BalanceDate   *string          `json:"balanceDate"`
	MonthlyBudget *decimal.Decimal `json:"monthlyBudget"`
	Strategy      *string          `json:"strategy"`
}

func (r *UpdateSettingRequest) Validate() error {
	if r.BalanceDate != nil {
		if _, err := time.Parse(DateLayout, *r.BalanceDate); err != nil {
			return fmt.Errorf("invalid balance date: %w", err)
		}
	}
	if r.MonthlyBudget != nil && r.MonthlyBudget.IsNegative() {
		return fmt.Errorf("monthlyBudget must be >= 0")
	}
	if r.Strategy != nil && !IsValidStrategy(*r.Strategy) {
		return fmt.Errorf("invalid strategy")
	}
	return nil
}
