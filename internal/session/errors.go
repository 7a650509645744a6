package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two recoverable failure classes.
var (
	ErrInventory = errors.New("inventory fetch failed")
	ErrLinkOpen  = errors.New("link open failed")
)

// InventoryFetchError wraps a provider failure.
type InventoryFetchError struct {
	Op  string // e.g. "refresh"
	Err error
}

func (e *InventoryFetchError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrInventory, e.Err)
}

func (e *InventoryFetchError) Unwrap() []error {
	return []error{ErrInventory, e.Err}
}

// LinkOpenError wraps a browser opener failure.
type LinkOpenError struct {
	URL string
	Err error
}

func (e *LinkOpenError) Error() string {
	return fmt.Sprintf("open %s: %v: %v", e.URL, ErrLinkOpen, e.Err)
}

func (e *LinkOpenError) Unwrap() []error {
	return []error{ErrLinkOpen, e.Err}
}
