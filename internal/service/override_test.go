package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvenanzi/debtreduction/internal/model"
)

func TestOverrideService_UpsertScheduleZeroRemoves(t *testing.T) {
	t.Parallel()

	scheduleStore := newFakeScheduleStore()
	svc := NewOverrideService(scheduleStore, &fakePaymentStore{}, &fakeDebtStore{}, testLogger())

	err := svc.UpsertSchedule(context.Background(), 3, model.UpsertScheduleOverrideRequest{
		AdditionalAmount: decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)

	overrides, err := svc.ListSchedule(context.Background())
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.Equal(t, 3, overrides[0].MonthIndex)

	err = svc.UpsertSchedule(context.Background(), 3, model.UpsertScheduleOverrideRequest{
		AdditionalAmount: decimal.Zero,
	})
	require.NoError(t, err)

	overrides, err = svc.ListSchedule(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overrides)
}

func TestOverrideService_UpsertScheduleRejectsBadMonth(t *testing.T) {
	t.Parallel()

	svc := NewOverrideService(newFakeScheduleStore(), &fakePaymentStore{}, &fakeDebtStore{}, testLogger())

	err := svc.UpsertSchedule(context.Background(), 0, model.UpsertScheduleOverrideRequest{
		AdditionalAmount: decimal.RequireFromString("50.00"),
	})
	require.Error(t, err)
}

func TestOverrideService_ReplacePaymentsRejectsUnknownDebt(t *testing.T) {
	t.Parallel()

	debtStore := &fakeDebtStore{debts: []model.Debt{{ID: 1, Creditor: "Visa"}}, nextID: 1}
	svc := NewOverrideService(newFakeScheduleStore(), &fakePaymentStore{}, debtStore, testLogger())

	_, err := svc.ReplacePayments(context.Background(), model.BulkPaymentOverridesRequest{
		MonthIndex: 2,
		Overrides: []model.PaymentOverrideEntry{
			{DebtID: 99, Amount: decPtr("10.00")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debt 99 not found")
}

func TestOverrideService_ReplacePaymentsReplacesWholeMonth(t *testing.T) {
	t.Parallel()

	debtStore := &fakeDebtStore{
		debts:  []model.Debt{{ID: 1, Creditor: "Visa"}, {ID: 2, Creditor: "Amex"}},
		nextID: 2,
	}
	paymentStore := &fakePaymentStore{overrides: []model.PaymentOverride{
		{MonthIndex: 2, DebtID: 1, Amount: decimal.RequireFromString("5.00")},
		{MonthIndex: 2, DebtID: 2, Amount: decimal.RequireFromString("7.00")},
		{MonthIndex: 4, DebtID: 1, Amount: decimal.RequireFromString("9.00")},
	}}
	svc := NewOverrideService(newFakeScheduleStore(), paymentStore, debtStore, testLogger())

	result, err := svc.ReplacePayments(context.Background(), model.BulkPaymentOverridesRequest{
		MonthIndex: 2,
		Overrides: []model.PaymentOverrideEntry{
			{DebtID: 2, Amount: decPtr("12.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].DebtID)
	assert.Equal(t, "12.00", result[0].Amount.StringFixed(2))

	// Переопределение другого месяца не тронуто
	other, err := svc.ListPayments(context.Background(), intPtr(4))
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, int64(1), other[0].DebtID)
}

func TestOverrideService_ReplacePaymentsRejectsDuplicates(t *testing.T) {
	t.Parallel()

	debtStore := &fakeDebtStore{debts: []model.Debt{{ID: 1, Creditor: "Visa"}}, nextID: 1}
	svc := NewOverrideService(newFakeScheduleStore(), &fakePaymentStore{}, debtStore, testLogger())

	_, err := svc.ReplacePayments(context.Background(), model.BulkPaymentOverridesRequest{
		MonthIndex: 2,
		Overrides: []model.PaymentOverrideEntry{
			{DebtID: 1, Amount: decPtr("10.00")},
			{DebtID: 1, Amount: decPtr("11.00")},
		},
	})
	require.Error(t, err)
}

func TestOverrideService_DeletePayment(t *testing.T) {
	t.Parallel()

	paymentStore := &fakePaymentStore{overrides: []model.PaymentOverride{
		{MonthIndex: 2, DebtID: 1, Amount: decimal.RequireFromString("5.00")},
	}}
	svc := NewOverrideService(newFakeScheduleStore(), paymentStore, &fakeDebtStore{}, testLogger())

	require.NoError(t, svc.DeletePayment(context.Background(), 2, 1))
	require.Error(t, svc.DeletePayment(context.Background(), 2, 1))
}
