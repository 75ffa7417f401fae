package simulation

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// MaxMonths is the hard iteration ceiling. Inputs that cannot reach payoff
// within it (interest outgrowing payment capacity) abort with
// ErrExceededMaxDuration instead of looping forever.
const MaxMonths = 600

// debtState is the mutable per-debt state of a single run. It is created
// fresh from the input debts on every call to Run and discarded afterwards,
// so concurrent runs never share anything.
type debtState struct {
	id             int64
	creditor       string
	balance        decimal.Decimal
	initialBalance decimal.Decimal
	apr            float64
	minimumPayment decimal.Decimal
	customPriority *int
	position       int
	interestPaid   decimal.Decimal
	payoffMonth    int // 1-based month index, 0 while still open
}

func (d *debtState) monthlyRate() decimal.Decimal {
	return decimal.NewFromFloat(d.apr).Div(decimal.NewFromInt(1200))
}

// Run projects the month-by-month payoff schedule for the given debts under
// the given settings and overrides. It is a pure function of its inputs: no
// I/O, no clock, no shared state. It either returns a complete result or an
// error (never a partial schedule).
func Run(
	settings model.Setting,
	debts []model.Debt,
	scheduleOverrides []model.ScheduleOverride,
	paymentOverrides []model.PaymentOverride,
) (*model.PlanResult, error) {
	states := make([]*debtState, 0, len(debts))
	for _, debt := range debts {
		states = append(states, &debtState{
			id:             debt.ID,
			creditor:       debt.Creditor,
			balance:        Quantize(debt.Balance),
			initialBalance: Quantize(debt.Balance),
			apr:            debt.APR,
			minimumPayment: Quantize(debt.MinimumPayment),
			customPriority: debt.CustomPriority,
			position:       debt.Position,
		})
	}

	// No debts: empty schedule with zero totals, skipping budget validation.
	if len(states) == 0 {
		return &model.PlanResult{
			Months: []model.PlanMonth{},
			Debts:  []model.DebtSummary{},
			Totals: model.PlanTotals{
				TotalInterest:         "0.00",
				TotalMonths:           0,
				MinPaymentsSum:        "0.00",
				MinimumMonthlyPayment: "0.00",
				InitialSnowball:       "0.00",
			},
		}, nil
	}

	minPaymentSum := decimal.Zero
	for _, state := range states {
		minPaymentSum = minPaymentSum.Add(state.minimumPayment)
	}
	minPaymentSum = Quantize(minPaymentSum)
	monthlyBudget := Quantize(settings.MonthlyBudget)

	if monthlyBudget.LessThan(minPaymentSum) {
		return nil, fmt.Errorf("%w: budget %s, minimum payments %s",
			ErrInsufficientBudget, money(monthlyBudget), money(minPaymentSum))
	}

	scheduleOverrideMap := make(map[int]decimal.Decimal, len(scheduleOverrides))
	for _, override := range scheduleOverrides {
		scheduleOverrideMap[override.MonthIndex] = override.AdditionalAmount
	}

	// Negative override amounts are ignored rather than rejected; the last
	// write for a (month, debt) pair wins, matching storage semantics.
	paymentOverrideMap := make(map[int]map[int64]decimal.Decimal)
	for _, override := range paymentOverrides {
		amount := Quantize(override.Amount)
		if amount.IsNegative() {
			continue
		}
		byDebt, ok := paymentOverrideMap[override.MonthIndex]
		if !ok {
			byDebt = make(map[int64]decimal.Decimal)
			paymentOverrideMap[override.MonthIndex] = byDebt
		}
		byDebt[override.DebtID] = amount
	}

	strategy := settings.Strategy
	initialOrder, err := orderStates(strategy, states)
	if err != nil {
		return nil, err
	}
	initialOrderIDs := make([]int64, len(initialOrder))
	for i, state := range initialOrder {
		initialOrderIDs[i] = state.id
	}

	balanceDate := settings.BalanceDate

	// The discretionary part of the budget is fixed once at simulation start;
	// minimums freed by closed debts join it from the following month.
	initialSnowball := Quantize(decimal.Max(monthlyBudget.Sub(minPaymentSum), decimal.Zero))
	freedMinimums := decimal.Zero
	totalInterest := decimal.Zero

	months := []model.PlanMonth{}
	monthIndex := 1
	dateCursor := balanceDate

	for anyOpen(states) {
		if monthIndex > MaxMonths {
			return nil, fmt.Errorf("%w (%d months); check the inputs", ErrExceededMaxDuration, MaxMonths)
		}

		ordered, err := orderStates(strategy, states)
		if err != nil {
			return nil, err
		}

		interestAccrued := decimal.Zero
		payments := make(map[int64]decimal.Decimal, len(states))
		for _, state := range states {
			payments[state.id] = decimal.Zero
		}

		// Interest accrual phase.
		for _, state := range ordered {
			if !state.balance.IsPositive() {
				continue
			}
			interest := Quantize(state.balance.Mul(state.monthlyRate()))
			if interest.IsZero() {
				continue
			}
			state.balance = Quantize(state.balance.Add(interest))
			state.interestPaid = Quantize(state.interestPaid.Add(interest))
			interestAccrued = Quantize(interestAccrued.Add(interest))
			totalInterest = Quantize(totalInterest.Add(interest))
		}

		// Post-interest balances cap payment overrides later in the month.
		balanceCeilings := make(map[int64]decimal.Decimal, len(states))
		for _, state := range states {
			balanceCeilings[state.id] = Quantize(state.balance)
		}

		additionalAmount := decimal.Zero
		if amount, ok := scheduleOverrideMap[monthIndex]; ok {
			additionalAmount = amount
		}
		availablePool := Quantize(initialSnowball.Add(freedMinimums).Add(additionalAmount))

		surplusPool := decimal.Zero

		// Minimum payment phase. A minimum that exceeds the remaining balance
		// leaves its unused portion in the surplus pool.
		for _, state := range ordered {
			if !state.balance.IsPositive() {
				continue
			}
			payment := Quantize(decimal.Min(state.minimumPayment, state.balance))

			state.balance = Quantize(state.balance.Sub(payment))
			payments[state.id] = Quantize(payments[state.id].Add(payment))

			if state.minimumPayment.GreaterThan(payment) {
				surplusPool = Quantize(surplusPool.Add(state.minimumPayment.Sub(payment)))
			}
			if !state.balance.IsPositive() {
				state.balance = decimal.Zero
			}
		}

		// Discretionary phase: pool flows down the payoff order.
		remainingSnowball := Quantize(availablePool.Add(surplusPool))
		for _, state := range ordered {
			if !remainingSnowball.IsPositive() {
				break
			}
			if !state.balance.IsPositive() {
				continue
			}

			payment := Quantize(decimal.Min(remainingSnowball, state.balance))
			if !payment.IsPositive() {
				continue
			}

			state.balance = Quantize(state.balance.Sub(payment))
			payments[state.id] = Quantize(payments[state.id].Add(payment))
			remainingSnowball = Quantize(remainingSnowball.Sub(payment))

			if !state.balance.IsPositive() {
				state.balance = decimal.Zero
			}
		}

		defaultPayments := make(map[int64]decimal.Decimal, len(payments))
		for id, amount := range payments {
			defaultPayments[id] = Quantize(amount)
		}
		finalPayments := make(map[int64]decimal.Decimal, len(defaultPayments))
		for id, amount := range defaultPayments {
			finalPayments[id] = amount
		}

		var warnings []string

		// Payment override phase. Overrides are applied in ascending debt-id
		// order so warning order is reproducible. An override may not exceed
		// the post-interest balance ceiling; overrides for debts outside this
		// month's payment set are ignored.
		if byDebt, ok := paymentOverrideMap[monthIndex]; ok {
			overrideIDs := make([]int64, 0, len(byDebt))
			for debtID := range byDebt {
				overrideIDs = append(overrideIDs, debtID)
			}
			sort.Slice(overrideIDs, func(i, j int) bool { return overrideIDs[i] < overrideIDs[j] })

			for _, debtID := range overrideIDs {
				if _, ok := finalPayments[debtID]; !ok {
					continue
				}
				overrideAmount := byDebt[debtID]
				ceiling := balanceCeilings[debtID]
				if overrideAmount.GreaterThan(ceiling) {
					warnings = append(warnings, fmt.Sprintf("Override for debt %d capped at remaining balance.", debtID))
				}
				finalPayments[debtID] = Quantize(decimal.Min(ceiling, overrideAmount))
			}
		}

		totalDefault := decimal.Zero
		for _, amount := range defaultPayments {
			totalDefault = totalDefault.Add(amount)
		}
		totalDefault = Quantize(totalDefault)
		totalFinal := decimal.Zero
		for _, amount := range finalPayments {
			totalFinal = totalFinal.Add(amount)
		}
		totalFinal = Quantize(totalFinal)

		// Overrides never trigger reallocation: extra demand and released
		// budget both surface as warnings, not as payment changes.
		if totalFinal.GreaterThan(totalDefault) {
			excess := Quantize(totalFinal.Sub(totalDefault))
			if excess.IsPositive() {
				warnings = append(warnings, fmt.Sprintf(
					"Overrides require more funds than available; need an additional $%s.", money(excess)))
			}
		} else if totalFinal.LessThan(totalDefault) {
			deficit := Quantize(totalDefault.Sub(totalFinal))
			if deficit.IsPositive() {
				warnings = append(warnings, "Overrides reduced payments; remaining budget left unallocated.")
			}
		}

		// Settlement: rewind each balance to its post-interest ceiling and
		// apply the final payment. Debts are marked closed only now, after
		// override settlement, so capping above saw the correct debt set and
		// freed minimums are credited exactly once.
		newlyFreed := decimal.Zero
		for _, state := range states {
			state.balance = Quantize(balanceCeilings[state.id].Sub(finalPayments[state.id]))
			if !state.balance.IsPositive() {
				if state.payoffMonth == 0 {
					newlyFreed = Quantize(newlyFreed.Add(state.minimumPayment))
					state.payoffMonth = monthIndex
				}
				state.balance = decimal.Zero
			}
		}

		month := model.PlanMonth{
			MonthIndex:              monthIndex,
			MonthLabel:              monthLabel(dateCursor),
			DateISO:                 dateCursor.Format("2006-01-02"),
			InterestAccrued:         money(Quantize(interestAccrued)),
			SnowballAmount:          money(availablePool),
			AdditionalAmount:        money(Quantize(additionalAmount)),
			DefaultPayments:         make(map[string]string, len(states)),
			Payments:                make(map[string]string, len(states)),
			RemainingBalances:       make(map[string]string, len(states)),
			PaymentOverrideWarnings: warnings,
		}
		for _, state := range states {
			key := strconv.FormatInt(state.id, 10)
			month.DefaultPayments[key] = money(defaultPayments[state.id])
			month.Payments[key] = money(finalPayments[state.id])
			month.RemainingBalances[key] = money(state.balance)
		}
		months = append(months, month)

		freedMinimums = Quantize(freedMinimums.Add(newlyFreed))

		monthIndex++
		dateCursor = AddMonths(balanceDate, monthIndex-1)
	}

	totalMonths := monthIndex - 1

	statesByID := make(map[int64]*debtState, len(states))
	for _, state := range states {
		statesByID[state.id] = state
	}

	// Per-debt summaries keep the ordering computed at simulation start.
	summaries := make([]model.DebtSummary, 0, len(initialOrderIDs))
	for _, debtID := range initialOrderIDs {
		state := statesByID[debtID]
		summary := model.DebtSummary{
			ID:             state.id,
			Creditor:       state.creditor,
			InitialBalance: money(Quantize(state.initialBalance)),
			InterestPaid:   money(Quantize(state.interestPaid)),
			MonthsToPayoff: totalMonths,
		}
		if state.payoffMonth > 0 {
			summary.MonthsToPayoff = state.payoffMonth
			label := monthLabel(AddMonths(balanceDate, state.payoffMonth-1))
			summary.PayoffMonthLabel = &label
		}
		summaries = append(summaries, summary)
	}

	return &model.PlanResult{
		Months: months,
		Debts:  summaries,
		Totals: model.PlanTotals{
			TotalInterest:         money(Quantize(totalInterest)),
			TotalMonths:           totalMonths,
			MinPaymentsSum:        money(minPaymentSum),
			MinimumMonthlyPayment: money(minPaymentSum),
			InitialSnowball:       money(initialSnowball),
		},
	}, nil
}

func anyOpen(states []*debtState) bool {
	for _, state := range states {
		if state.balance.IsPositive() {
			return true
		}
	}
	return false
}
