package services

// The service layer reports failures through four error kinds so handlers can
// map them to a status code without string matching: validation (400),
// permission (403), conflict (409) and not-found (404).

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string { return e.Message }

// ConflictError signals a guard that failed against concurrently committed
// state, e.g. the last seat of an offer being taken by another accept.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
