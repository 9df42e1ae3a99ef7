package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// The global handler receives what the runtime has no caller to return
// to: panics recovered on the host loop, aborted render generations and
// settings a scheduler rejected from inside a callback.
var (
	// DefaultHandler is the global error handler, a LogHandler unless
	// replaced.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler replaces the global handler. Nil restores a plain LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		h = &LogHandler{}
	}
	DefaultHandler = h
}

// Swap installs h and returns a func that reinstalls the handler it
// replaced:
//
//	defer errors.Swap(rec)()
func Swap(h ErrorHandler) (restore func()) {
	prev := current()
	SetHandler(h)
	return func() { SetHandler(prev) }
}

func current() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Report delivers an error raised inside a scheduler or host callback,
// such as a rejected frame rate. A zero Timestamp is set to now.
func Report(err *Error) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	current().HandleError(err)
}

// ReportPanic delivers a panic that did not come from a render
// generation, typically a submitted loop function or an event handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	current().HandlePanic(err)
}

// ReportRenderError delivers the error of an aborted render generation.
// By the time it is reported the generation has been rolled back.
func ReportRenderError(err *RenderError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	current().HandleRenderError(err)
}

// ReportRecovered routes a recovered panic value. A *RenderError keeps its
// component and phase; any other value becomes a PanicError for op.
func ReportRecovered(op string, r any) {
	if renderErr, ok := r.(*RenderError); ok {
		ReportRenderError(renderErr)
		return
	}
	ReportPanic(&PanicError{
		Op:         op,
		Value:      r,
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
}

// Recover reports a panic of the deferring function and stops it.
//
//	defer errors.Recover("scheduler.Loop")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by callback(r).
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		ReportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

// CaptureStack returns the caller's stack, one "function\n\tfile:line"
// entry per frame. Frames of the runtime's panic machinery are left out
// so a stack captured during recovery starts at the code that panicked.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !isPanicFrame(frame.Function) {
			sb.WriteString(frame.Function)
			sb.WriteString("\n\t")
			sb.WriteString(frame.File)
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(frame.Line))
			sb.WriteString("\n")
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func isPanicFrame(fn string) bool {
	switch {
	case strings.HasPrefix(fn, "runtime.gopanic"), strings.HasPrefix(fn, "runtime.panic"):
		return true
	case strings.HasPrefix(fn, pkgPath+".Recover"), strings.HasPrefix(fn, pkgPath+".ReportRecovered"):
		return true
	}
	return false
}

const pkgPath = "github.com/go-redul/redul/pkg/errors"

// Recorder is an ErrorHandler that keeps every report in memory. It is
// safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	errs    []*Error
	panics  []*PanicError
	renders []*RenderError
}

func (r *Recorder) HandleError(err *Error) {
	r.mu.Lock()
	r.errs = append(r.errs, err)
	r.mu.Unlock()
}

func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, err)
	r.mu.Unlock()
}

func (r *Recorder) HandleRenderError(err *RenderError) {
	r.mu.Lock()
	r.renders = append(r.renders, err)
	r.mu.Unlock()
}

// Errors returns the recorded errors.
func (r *Recorder) Errors() []*Error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Error(nil), r.errs...)
}

// Panics returns the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// RenderErrors returns the recorded render errors.
func (r *Recorder) RenderErrors() []*RenderError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*RenderError(nil), r.renders...)
}

// Len reports how many reports of any kind were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs) + len(r.panics) + len(r.renders)
}
