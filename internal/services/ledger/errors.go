package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by order execution. Handlers map these to HTTP
// status codes; callers test them with errors.Is / errors.As.
var (
	ErrInvalidInput           = errors.New("invalid order input")
	ErrProductUnavailable     = errors.New("product unavailable")
	ErrConcurrentModification = errors.New("order aborted after concurrent modification")
)

// InsufficientFundsError reports a buy rejected because the wallet cannot
// cover the order total.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// InsufficientHoldingsError reports a sell rejected because the position
// holds fewer units than requested.
type InsufficientHoldingsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientHoldingsError) Error() string {
	return fmt.Sprintf("insufficient holdings: available %s units, requested %s",
		e.Available.String(), e.Requested.String())
}
