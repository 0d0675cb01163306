package errors

import "github.com/pkg/errors"

// ErrorTracer wraps an error with a message while preserving the deepest
// available stack trace. Engine code returns these across package boundaries
// so the logger can print where a failure originated.
type ErrorTracer struct {
	Message string
	Err     error
}

// StackTracer is satisfied by errors that carry a stack trace.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// NewTracer creates an ErrorTracer with the provided message and a stack
// captured at the call site.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
		Err:     errors.New(message),
	}
}

// TracerFromError creates an ErrorTracer from an existing error, attaching a
// stack trace if the error does not already carry one.
func TracerFromError(err error) *ErrorTracer {
	tracer := &ErrorTracer{
		Message: err.Error(),
		Err:     err,
	}
	if _, ok := err.(StackTracer); !ok {
		tracer.Err = errors.WithStack(err)
	}
	return tracer
}

func (e *ErrorTracer) Error() string {
	return e.Message
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack trace of the underlying error, if any.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if withStack, ok := e.Err.(StackTracer); ok {
		return withStack.StackTrace()
	}
	return nil
}
