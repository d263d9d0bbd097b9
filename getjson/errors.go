package getjson

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/Query-farm/getjson/jsonvalue"
)

// ErrBinding is a sentinel for use with errors.Is to check whether any error
// in a chain is a *BindingError.
var ErrBinding = &BindingError{}

// BindingReason says why a request could not be bound to an endpoint's
// parameters.
type BindingReason string

const (
	// ReasonMissingPathVariable means a path parameter names a variable the
	// matched pattern does not declare.
	ReasonMissingPathVariable BindingReason = "missing path variable"
	// ReasonMissingParameter means a required query parameter is absent.
	ReasonMissingParameter BindingReason = "missing required parameter"
	// ReasonUnsupportedType means the declared parameter type has no
	// coercion from request text.
	ReasonUnsupportedType BindingReason = "unsupported parameter type"
	// ReasonMalformedValue means the request text does not parse as the
	// declared parameter type.
	ReasonMalformedValue BindingReason = "malformed parameter value"
)

// BindingError reports a request parameter that could not be bound.
type BindingError struct {
	Reason BindingReason
	Param  string
	Err    error // parse failure for ReasonMalformedValue
}

func (e *BindingError) Error() string {
	msg := fmt.Sprintf("BindingError: %s: %s", e.Reason, e.Param)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BindingError) Unwrap() error { return e.Err }

// Is supports errors.Is by matching any *BindingError target.
func (e *BindingError) Is(target error) bool {
	_, ok := target.(*BindingError)
	return ok
}

// PanicError wraps a value recovered from a panicking endpoint.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// errorType returns a short type name for err, used in logs and by hooks.
func errorType(err error) string {
	var (
		bindErr  *BindingError
		typeErr  *jsonvalue.TypeError
		numErr   *jsonvalue.NumberError
		panicErr *PanicError
	)
	switch {
	case errors.As(err, &bindErr):
		return "BindingError"
	case errors.As(err, &typeErr):
		return "TypeError"
	case errors.As(err, &numErr):
		return "NumberError"
	case errors.As(err, &panicErr):
		return "Panic"
	default:
		return fmt.Sprintf("%T", err)
	}
}

// ErrorType is the exported form of errorType for hook implementations.
func ErrorType(err error) string {
	if err == nil {
		return ""
	}
	return errorType(err)
}

// stackFrame is a single frame in a Go stack trace.
type stackFrame struct {
	File     string
	Line     int
	Function string
}

func (f stackFrame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, f.File, f.Line)
}

// errorAttrs returns the slog attributes logged for a failed dispatch. With
// debug enabled the first few caller frames are included, or the recovered
// stack for a panic.
func errorAttrs(err error, debug bool) []any {
	attrs := []any{"err", err, "error_type", errorType(err)}
	if !debug {
		return attrs
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) && len(panicErr.Stack) > 0 {
		return append(attrs, "stack", string(panicErr.Stack))
	}

	var frames []string
	pcs := make([]uintptr, 10)
	n := runtime.Callers(3, pcs)
	if n > 0 {
		callersFrames := runtime.CallersFrames(pcs[:n])
		for len(frames) < 5 {
			frame, more := callersFrames.Next()
			frames = append(frames, stackFrame{
				File:     frame.File,
				Line:     frame.Line,
				Function: frame.Function,
			}.String())
			if !more {
				break
			}
		}
	}
	return append(attrs, slog.String("frames", strings.Join(frames, "; ")))
}
