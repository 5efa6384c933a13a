package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/wirebox/logging"
	"github.com/skekre98/wirebox/logging/loggingtest"
)

// quietSink returns from Die.
type quietSink struct{ died []*logging.FatalError }

func (s *quietSink) Log(slog.Level, string, slog.Source) {}
func (s *quietSink) Die(err *logging.FatalError)         { s.died = append(s.died, err) }

func TestSlogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := logging.SlogSink{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	sink.Log(slog.LevelWarn, "careful", logging.Caller(0))
	assert.Contains(t, buf.String(), "msg=careful")
	assert.Contains(t, buf.String(), "sink_test.go")

	fatal := loggingtest.CatchFatal(func() {
		logging.DieTo(sink, logging.KindNoContainer, "no container for owner")
	})
	require.NotNil(t, fatal)
	assert.Equal(t, logging.KindNoContainer, fatal.Kind)
	assert.Contains(t, buf.String(), "kind=no_container")
}

func TestDie_PanicsWhenSinkReturns(t *testing.T) {
	s := &quietSink{}
	logging.SetSink(s)
	t.Cleanup(logging.ResetSink)

	fatal := loggingtest.CatchFatal(func() {
		logging.Die(logging.KindNoResolver, "%s has no resolver", "int")
	})
	require.NotNil(t, fatal)
	assert.Equal(t, "int has no resolver", fatal.Message)
	require.Len(t, s.died, 1)
	assert.Same(t, fatal, s.died[0])
	assert.EqualError(t, fatal, "fatal dependency error (no_resolver): int has no resolver")
}

func TestSetSink(t *testing.T) {
	rec := loggingtest.Install(t)
	assert.Same(t, rec, logging.CurrentSink())

	logging.Debugf("debug %d", 1)
	logging.Errorf("error %d", 2)
	assert.Equal(t, []string{"error 2"}, rec.Errors())
	require.Len(t, rec.Entries(), 2)
	assert.Contains(t, rec.Entries()[0].Source.File, "sink_test.go")

	logging.SetSink(nil)
	assert.IsType(t, logging.SlogSink{}, logging.CurrentSink())
}
