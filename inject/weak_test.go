package inject_test

import (
	"runtime"
	"testing"
	"time"
	"weak"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/inject"
	"github.com/skekre98/wirebox/logging"
	"github.com/skekre98/wirebox/logging/loggingtest"
)

type session struct {
	user  string
	perms []string
}

type sessionView struct {
	session *inject.Weak[session]
}

func TestWeak_ReleasedTargetReadsNil(t *testing.T) {
	loggingtest.Install(t)

	c := core.NewContainer()
	usePolicy(t, inject.Singleton(c))

	target := &session{user: "gopher", perms: []string{"read"}}
	ref := weak.Make(target)
	core.Register(c, func() *session { return ref.Value() })

	view := &sessionView{session: inject.Weakly[session]()}
	got := view.session.Get(view)
	require.NotNil(t, got)
	assert.Equal(t, "gopher", got.user)
	assert.True(t, view.session.Resolved())

	got, target = nil, nil
	require.Eventually(t, func() bool {
		runtime.GC()
		return view.session.Get(view) == nil
	}, 5*time.Second, 10*time.Millisecond)

	// the factory would now produce nil too; no second resolution happens
	core.Register(c, func() *session { return &session{user: "replacement"} })
	assert.Nil(t, view.session.Get(view))
}

func TestWeak_NilFromFactory(t *testing.T) {
	loggingtest.Install(t)

	c := core.NewContainer()
	core.Register(c, func() *session { return nil })

	w := inject.Weakly[session](inject.WithContainer(c))
	assert.Nil(t, w.Get(nil))
	assert.True(t, w.Resolved())
}

func TestWeak_SameTargetWhileAlive(t *testing.T) {
	loggingtest.Install(t)

	target := &session{user: "gopher"}
	c := core.NewContainer()
	core.Register(c, func() *session { return target })
	usePolicy(t, inject.Singleton(c))

	w := inject.Weakly[session]()
	assert.Same(t, target, w.Get(nil))
	assert.Same(t, w.Get(nil), w.Get(nil))
	runtime.KeepAlive(target)
}

func TestWeak_MissingResolver(t *testing.T) {
	rec := loggingtest.Install(t)
	usePolicy(t, inject.Singleton(core.NewContainer()))

	fatal := loggingtest.CatchFatal(func() { inject.Weakly[session]().Get(nil) })
	require.NotNil(t, fatal)
	assert.Equal(t, logging.KindNoResolver, fatal.Kind)

	assert.Nil(t, inject.Weakly[session](inject.Optional()).Get(nil))
	assert.Len(t, rec.Fatals(), 1)
}

func TestWeak_NoPolicy(t *testing.T) {
	loggingtest.Install(t)
	inject.ResetPolicy()

	w := inject.Weakly[session]()
	fatal := loggingtest.CatchFatal(func() { w.Get(nil) })
	require.NotNil(t, fatal)
	assert.Equal(t, logging.KindNoLookupPolicy, fatal.Kind)
}
