package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

// Kind classifies an unrecoverable wiring mistake reported through Die.
type Kind string

const (
	// KindNoLookupPolicy means an injection point needed the process-wide
	// lookup policy before one was set.
	KindNoLookupPolicy Kind = "no_lookup_policy"
	// KindNoContainer means the lookup policy could not produce a container
	// for the owning instance.
	KindNoContainer Kind = "no_container"
	// KindParameterizedOnly means an eager injection point found only a
	// parameterized resolver and had no owner to pass as the parameter.
	KindParameterizedOnly Kind = "parameterized_only"
	// KindNoResolver means a required dependency has no resolver anywhere in
	// the container chain.
	KindNoResolver Kind = "no_resolver"
)

// FatalError is the panic value produced by Die.
type FatalError struct {
	Kind    Kind
	Message string
	Source  slog.Source
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal dependency error (%s): %s", e.Kind, e.Message)
}

// Sink receives diagnostics from containers and injection points.
//
// Die must not return normally. Implementations either panic, exit the
// process or stop the calling goroutine; if Die does return, the caller
// panics with the same *FatalError anyway.
type Sink interface {
	Log(level slog.Level, msg string, src slog.Source)
	Die(err *FatalError)
}

// SlogSink writes diagnostics to a slog.Logger and panics on Die.
type SlogSink struct {
	Logger *slog.Logger
}

func (s SlogSink) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s SlogSink) Log(level slog.Level, msg string, src slog.Source) {
	s.logger().Log(context.Background(), level, msg,
		"source", fmt.Sprintf("%s:%d", src.File, src.Line),
	)
}

func (s SlogSink) Die(err *FatalError) {
	s.logger().Error(err.Message,
		"kind", string(err.Kind),
		"source", fmt.Sprintf("%s:%d", err.Source.File, err.Source.Line),
	)
	panic(err)
}

type sinkHolder struct{ sink Sink }

var current atomic.Pointer[sinkHolder]

// SetSink replaces the process-wide diagnostic sink. Tests use it to turn
// Die into a recoverable signal.
func SetSink(s Sink) {
	if s == nil {
		ResetSink()
		return
	}
	current.Store(&sinkHolder{sink: s})
}

// CurrentSink returns the process-wide sink, defaulting to a SlogSink over
// slog.Default().
func CurrentSink() Sink {
	if h := current.Load(); h != nil {
		return h.sink
	}
	return SlogSink{}
}

// ResetSink restores the default sink.
func ResetSink() {
	current.Store(nil)
}

// Debugf logs through the current sink at debug level.
func Debugf(format string, args ...any) {
	CurrentSink().Log(slog.LevelDebug, fmt.Sprintf(format, args...), caller(2))
}

// Errorf logs through the current sink at error level.
func Errorf(format string, args ...any) {
	CurrentSink().Log(slog.LevelError, fmt.Sprintf(format, args...), caller(2))
}

// Die reports an unrecoverable error through the current sink and never
// returns.
func Die(kind Kind, format string, args ...any) {
	DieTo(CurrentSink(), kind, fmt.Sprintf(format, args...))
}

// DieTo is Die against an explicit sink.
func DieTo(s Sink, kind Kind, msg string) {
	err := &FatalError{Kind: kind, Message: msg, Source: caller(3)}
	s.Die(err)
	panic(err)
}

// Caller returns the source location skip frames above the function calling
// Caller.
func Caller(skip int) slog.Source {
	return caller(skip + 2)
}

func caller(skip int) slog.Source {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return slog.Source{File: "???"}
	}
	var fn string
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
	}
	return slog.Source{Function: fn, File: file, Line: line}
}
