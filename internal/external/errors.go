package external

import (
	"errors"
	"fmt"
)

// ErrProvider marks an upstream that answered but refused the request
// (currencylayer success=false, FRED non-2xx, missing quote key).
var ErrProvider = errors.New("provider request failed")

// FetchError reports a failed fetch for a specific series id, so batch
// callers can say which series blanked the dashboard.
type FetchError struct {
	SeriesID string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch series %s: %v", e.SeriesID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
