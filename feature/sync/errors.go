package sync

import "fmt"

// FetchError reports a failed provider fetch for one (product, date) pair.
// It covers transport failures, non-2xx responses and malformed payloads.
// Fetches are not retried; the orchestrator logs the error and moves on.
type FetchError struct {
	ProductID uint
	Date      string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch inventory for product %d on %s: %v", e.ProductID, e.Date, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MergeError reports a storage failure while reconciling one (product, date)
// snapshot. The transaction is rolled back, so the previous state of that
// date survives intact.
type MergeError struct {
	ProductID uint
	Date      string
	Err       error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merge inventory for product %d on %s: %v", e.ProductID, e.Date, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }
