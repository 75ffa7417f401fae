package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvenanzi/debtreduction/internal/model"
)

func TestPlanHandler_SimulateReturnsSchedule(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.addDebt("Card A", "100.00", 12, "50.00")
	env.addDebt("Card B", "200.00", 6, "25.00")

	req := httptest.NewRequest(http.MethodGet, "/api/simulation", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Totals.TotalMonths)
	assert.Equal(t, "2.51", result.Totals.TotalInterest)
	assert.Equal(t, "75.00", result.Totals.MinPaymentsSum)
	assert.Equal(t, "75.00", result.Totals.MinimumMonthlyPayment)
	require.Len(t, result.Months, 2)
	assert.Equal(t, "Jan 2024", result.Months[0].MonthLabel)
}

func TestPlanHandler_SimulateEmptyDebts(t *testing.T) {
	t.Parallel()

	env := newTestEnv()

	req := httptest.NewRequest(http.MethodGet, "/api/simulation", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Empty(t, result.Months)
	assert.Equal(t, 0, result.Totals.TotalMonths)
}

func TestPlanHandler_SimulateInsufficientBudget(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.settingStore.setting.MonthlyBudget = decimal.RequireFromString("10.00")
	env.addDebt("Card A", "100.00", 12, "50.00")

	req := httptest.NewRequest(http.MethodGet, "/api/simulation", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "minimum payments")
}

func TestPlanHandler_SimulateUnknownStrategy(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	env.settingStore.setting.Strategy = "hybrid"
	env.addDebt("Card A", "100.00", 12, "50.00")

	req := httptest.NewRequest(http.MethodGet, "/api/simulation", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
