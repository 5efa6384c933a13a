// Package loggingtest provides a diagnostic sink that records messages and
// turns Die into a recoverable panic for tests.
package loggingtest

import (
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/skekre98/wirebox/logging"
)

// Entry is one recorded Log call.
type Entry struct {
	Level   slog.Level
	Message string
	Source  slog.Source
}

// Recorder is a logging.Sink that keeps every entry and fatal error.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	fatals  []*logging.FatalError
}

func (r *Recorder) Log(level slog.Level, msg string, src slog.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Source: src})
}

// Die records err and panics with it so CatchFatal can recover it.
func (r *Recorder) Die(err *logging.FatalError) {
	r.mu.Lock()
	r.fatals = append(r.fatals, err)
	r.mu.Unlock()
	panic(err)
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Errors returns the messages logged at error level or above.
func (r *Recorder) Errors() []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Level >= slog.LevelError {
			out = append(out, e.Message)
		}
	}
	return out
}

func (r *Recorder) Fatals() []*logging.FatalError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*logging.FatalError(nil), r.fatals...)
}

// Install makes a fresh Recorder the process-wide sink until the test ends.
// Tests calling Install must not run in parallel with each other.
func Install(t testing.TB) *Recorder {
	t.Helper()
	r := &Recorder{}
	logging.SetSink(r)
	t.Cleanup(logging.ResetSink)
	return r
}

// CatchFatal runs fn and returns the *logging.FatalError it panicked with,
// or nil if fn returned normally. Other panics propagate.
func CatchFatal(fn func()) (fatal *logging.FatalError) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if err, ok := rec.(error); ok && errors.As(err, &fatal) {
			return
		}
		panic(rec)
	}()
	fn()
	return nil
}
