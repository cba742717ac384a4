package tensor

import (
	"errors"
	"fmt"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// Error kinds. Every validation failure wraps exactly one of these.
var (
	ErrShape      = errors.New("shape error")
	ErrLayout     = errors.New("layout error")
	ErrAxis       = errors.New("axis error")
	ErrArithmetic = errors.New("arithmetic error")
	ErrAllocation = errors.New("allocation error")
	ErrDType      = errors.New("dtype error")
	ErrReleased   = errors.New("storage released")
)

// ErrorHandler receives the message of every validation failure.
type ErrorHandler func(msg string)

var errorHandler atomic.Pointer[ErrorHandler]

// SetErrorHandler installs h as the process-wide error hook and returns the
// previously installed handler (nil when the default was active).
//
// Passing nil restores the default handler, which logs the message and
// terminates the process. Callers that want recoverable errors must install
// a handler that returns.
func SetErrorHandler(h ErrorHandler) ErrorHandler {
	var prev *ErrorHandler
	if h == nil {
		prev = errorHandler.Swap(nil)
	} else {
		prev = errorHandler.Swap(&h)
	}
	if prev == nil {
		return nil
	}
	return *prev
}

func defaultErrorHandler(msg string) {
	klog.ErrorS(nil, msg)
	klog.FlushAndExit(klog.ExitFlushTimeout, 1)
}

// Errorf builds an error of the given kind, routes its message through the
// error hook and returns it.
func Errorf(kind error, format string, args ...any) error {
	err := fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
	report(err.Error())
	return err
}

func report(msg string) {
	if h := errorHandler.Load(); h != nil {
		(*h)(msg)
		return
	}
	defaultErrorHandler(msg)
}
