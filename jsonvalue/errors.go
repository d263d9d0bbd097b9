package jsonvalue

import (
	"fmt"
	"strconv"
)

// ErrType is a sentinel for use with errors.Is to check whether any error in
// a chain is a *TypeError.
var ErrType = &TypeError{}

// ErrNumber is a sentinel for use with errors.Is to check whether any error
// in a chain is a *NumberError.
var ErrNumber = &NumberError{}

// TypeError reports input that [Build] cannot convert.
type TypeError struct {
	Type    string // Go type name, e.g. "chan int"
	Message string
}

func (e *TypeError) Error() string {
	if e.Type == "" {
		return "TypeError: " + e.Message
	}
	return fmt.Sprintf("TypeError: %s: %s", e.Message, e.Type)
}

// Is supports errors.Is by matching any *TypeError target.
func (e *TypeError) Is(target error) bool {
	_, ok := target.(*TypeError)
	return ok
}

// NumberError reports an attempt to serialize a non-finite number.
type NumberError struct {
	Value float64
}

func (e *NumberError) Error() string {
	return "NumberError: invalid JSON number: " + strconv.FormatFloat(e.Value, 'g', -1, 64)
}

// Is supports errors.Is by matching any *NumberError target.
func (e *NumberError) Is(target error) bool {
	_, ok := target.(*NumberError)
	return ok
}
