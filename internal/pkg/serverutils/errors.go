package serverutils

import "errors"

var (
	ErrNotFound      = errors.New("the requested resource was not found")
	ErrForbidden     = errors.New("you do not have access to this resource")
	ErrUnauthorized  = errors.New("you are not authorized to access this resource")
	ErrInvalidInput  = errors.New("the request could not be processed due to invalid input")
	ErrAlreadyExists = errors.New("the resource already exists")
	ErrInternal      = errors.New("something went wrong on our end, please try again later")
)

// InternalError marks an unexpected failure (storage, encoding) while keeping
// the cause around for logs. errors.Is matches both ErrInternal and the cause.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() []error {
	return []error{ErrInternal, e.Err}
}

func Internal(op string, err error) error {
	return &InternalError{Op: op, Err: err}
}
