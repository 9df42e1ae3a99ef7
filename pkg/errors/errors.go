// Package errors provides structured error reporting for the redul runtime.
//
// The runtime has no error boundaries: a panic raised by a component body,
// an effect or a host operation aborts the generation being computed and
// travels out of the scheduler task. The host loop recovers it and hands it
// to the configured ErrorHandler. Non-fatal problems such as a rejected frame
// rate are reported through the same handler and execution continues.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Sentinel errors wrapped by the runtime packages.
var (
	// ErrFrameRateOutOfRange is returned when a forced frame rate is outside 0..125.
	ErrFrameRateOutOfRange = stderrors.New("frame rate must be between 0 and 125 fps")
	// ErrLoopRunning is returned when a host loop is started twice.
	ErrLoopRunning = stderrors.New("host loop is already running")
	// ErrUnsupportedVersion is returned for configuration files of an unknown major version.
	ErrUnsupportedVersion = stderrors.New("unsupported configuration version")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates invalid runtime configuration.
	KindConfig
	// KindScheduler indicates a scheduler or host loop failure.
	KindScheduler
	// KindRender indicates a failure while computing a generation.
	KindRender
	// KindCommit indicates a failure while applying effects to the host tree.
	KindCommit
	// KindHost indicates a host tree adapter failure.
	KindHost
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindScheduler:
		return "scheduler"
	case KindRender:
		return "render"
	case KindCommit:
		return "commit"
	case KindHost:
		return "host"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Error is a structured runtime error.
type Error struct {
	// Op is the operation that failed (e.g., "scheduler.ForceFrameRate").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scheduler.Loop").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// RenderError represents a failure that aborted a render generation.
type RenderError struct {
	// Component is the name of the component or host tag being processed.
	Component string
	// Phase is the reconciler phase: "render", "effect" or "commit".
	Phase string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s (%s): %v", e.Component, e.Phase, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s (%s): %v", e.Component, e.Phase, e.Err)
	}
	return fmt.Sprintf("unknown error in %s (%s)", e.Component, e.Phase)
}

func (e *RenderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called for non-fatal runtime errors.
	HandleError(err *Error)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render generation is aborted.
	HandleRenderError(err *RenderError)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
