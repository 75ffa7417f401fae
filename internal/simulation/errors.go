package simulation

import "errors"

// Validation errors reported by the engine. All of them mean the inputs need
// to be corrected by the caller; retrying with the same inputs cannot succeed.
var (
	// ErrUnknownStrategy - strategy value outside the four recognised names.
	ErrUnknownStrategy = errors.New("unknown payoff strategy")

	// ErrInsufficientBudget - monthly budget below the sum of minimum
	// payments; the simulation never starts.
	ErrInsufficientBudget = errors.New("monthly budget is less than the sum of minimum payments")

	// ErrExceededMaxDuration - the debts cannot be paid off within the
	// iteration ceiling (e.g. interest outgrows payment capacity).
	ErrExceededMaxDuration = errors.New("simulation exceeded the maximum duration")
)

// IsValidationError reports whether err is one of the engine's input
// validation errors, so callers can map it to a user-facing 4xx response.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrUnknownStrategy) ||
		errors.Is(err, ErrInsufficientBudget) ||
		errors.Is(err, ErrExceededMaxDuration)
}
