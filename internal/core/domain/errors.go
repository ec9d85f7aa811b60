package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownItem         = errors.New("unknown item")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidName         = errors.New("invalid name")
	ErrOrderAlreadyDecided = errors.New("order already decided")
)

// OperationError tags a failure with the engine operation that produced it.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// Wrap returns nil for a nil err, otherwise an *OperationError for op.
// An error that is already an OperationError is returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Op: op, Err: err}
}

// IsDomainError reports whether err belongs to the recoverable engine taxonomy.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidCredential, ErrInvalidAmount, ErrUnknownItem,
		ErrInsufficientFunds, ErrAlreadyExists, ErrInvalidName, ErrOrderAlreadyDecided,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
