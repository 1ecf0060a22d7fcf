package shoplist

import "errors"

var (
	// ErrEmptyName: blank product name on add. Nothing changes.
	ErrEmptyName = errors.New("product name is empty")

	// ErrDuplicateDeclined: the user chose not to add the product twice.
	ErrDuplicateDeclined = errors.New("duplicate declined")

	// ErrCancelled: a quantity or price prompt was dismissed.
	ErrCancelled = errors.New("cancelled")

	// ErrItemNotFound: no item carries the given id.
	ErrItemNotFound = errors.New("item not found")

	// ErrPersistenceUnavailable: the snapshot could not be read or written.
	// The in-memory list stays authoritative for the session.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
