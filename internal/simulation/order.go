package simulation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kvenanzi/debtreduction/internal/model"
)

// Debts without a custom priority sort after every debt that has one.
const customPrioritySentinel = 9999

// orderStates returns the debts in payoff order for the given strategy.
// The input slice is not modified. Ordering is recomputed every simulated
// month: for avalanche/snowball the keys change as balances shrink, for
// entered/custom the result is simply stable.
//
// Tie-breaking is fully deterministic so that identical inputs always yield
// identical schedules:
//
//	avalanche: APR desc, balance asc, creditor asc (case-insensitive)
//	snowball:  balance asc, APR desc, creditor asc
//	entered:   entry position asc
//	custom:    custom priority asc (missing last), balance asc, creditor asc
func orderStates(strategy string, states []*debtState) ([]*debtState, error) {
	ordered := make([]*debtState, len(states))
	copy(ordered, states)

	switch strategy {
	case model.StrategyAvalanche:
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := ordered[i], ordered[j]
			if a.apr != b.apr {
				return a.apr > b.apr
			}
			if c := a.balance.Cmp(b.balance); c != 0 {
				return c < 0
			}
			return strings.ToLower(a.creditor) < strings.ToLower(b.creditor)
		})
	case model.StrategySnowball:
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := ordered[i], ordered[j]
			if c := a.balance.Cmp(b.balance); c != 0 {
				return c < 0
			}
			if a.apr != b.apr {
				return a.apr > b.apr
			}
			return strings.ToLower(a.creditor) < strings.ToLower(b.creditor)
		})
	case model.StrategyEntered:
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].position < ordered[j].position
		})
	case model.StrategyCustom:
		sort.SliceStable(ordered, func(i, j int) bool {
			a, b := ordered[i], ordered[j]
			if pa, pb := a.priorityKey(), b.priorityKey(); pa != pb {
				return pa < pb
			}
			if c := a.balance.Cmp(b.balance); c != 0 {
				return c < 0
			}
			return strings.ToLower(a.creditor) < strings.ToLower(b.creditor)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}

	return ordered, nil
}

func (d *debtState) priorityKey() int {
	if d.customPriority == nil {
		return customPrioritySentinel
	}
	return *d.customPriority
}
