package invest

import (
	"errors" // Sentinel errors
	"fmt"    // Error formatting
)

// Errors returned by the ledger and allocation engine
var (
	ErrInvalidAmount = errors.New("amount must be greater than 0")  // Non-positive amount
	ErrZeroPrice     = errors.New("asset has no price")             // Unit purchase undefined at price 0
	ErrNoSelections  = errors.New("no portfolio selections")        // Nothing to distribute across
	ErrNotFound      = errors.New("not found")                      // Missing record
)

// InsufficientFundsError reports a funding source that cannot cover a request
type InsufficientFundsError struct {
	Source    string  // Funding source: wallet or roundups
	Available float64 // Amount available
	Needed    float64 // Amount requested
}

// Error formats the shortfall with available vs needed amounts
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s: available %.2f, need %.2f", e.Source, e.Available, e.Needed)
}
