package finance

import "errors"

// Error taxonomy shared by the whole pipeline. Callers match with errors.Is;
// the wrapped message carries the symbol and position that failed.
var (
	ErrConfiguration    = errors.New("configuration error")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrDegenerateReturn = errors.New("degenerate return")
	ErrDataUnavailable  = errors.New("data unavailable")
)
