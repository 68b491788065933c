package model

import "errors"

// Error taxonomy shared by every service. Handlers translate these into
// transport status codes; everything else surfaces as an internal error.
var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrTransactionConflict = errors.New("transaction conflict")
	ErrInvalidInput        = errors.New("invalid input")
)
