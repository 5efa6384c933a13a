package web_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skekre98/wirebox/config"
	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/inject"
	"github.com/skekre98/wirebox/logging/loggingtest"
	"github.com/skekre98/wirebox/web"
)

type greeter struct{ word string }

type whoamiHandler struct {
	web.Request
	id    inject.Injected[web.RequestID]
	greet inject.Injected[*greeter]
}

func (h *whoamiHandler) serve() {
	h.Ctx.JSON(http.StatusOK, gin.H{
		"id":       h.id.Get(h),
		"greeting": h.greet.Get(h).word,
	})
}

type brokenHandler struct {
	web.Request
	port inject.Injected[int]
}

func newRoot(t *testing.T, opts ...web.Option) *core.Container {
	t.Helper()

	root := core.NewContainer(core.WithName("root"))
	core.Register(root, func() config.Root {
		return config.Root{Server: config.ServerConfig{Addr: ":0"}}
	})
	core.Register(root, func() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) })
	core.Register(root, func() *greeter { return &greeter{word: "hello"} })

	require.NoError(t, web.Module(opts...).Configure(root))
	inject.SetPolicy(inject.FromEnclosingObject(root))
	t.Cleanup(inject.ResetPolicy)
	return root
}

func get(t *testing.T, h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRequestScope(t *testing.T) {
	loggingtest.Install(t)

	root := newRoot(t,
		web.WithScope(func(c *core.Container, g *gin.Context) {
			if word := g.GetHeader("X-Greeting"); word != "" {
				core.Register(c, func() *greeter { return &greeter{word: word} })
			}
		}),
		web.WithRoutes(func(r web.Router) {
			r.GET("/whoami", func(g *gin.Context) {
				(&whoamiHandler{Request: web.Request{Ctx: g}}).serve()
			})
		}),
	)
	engine := web.Engine(root)

	tests := []struct {
		name     string
		header   http.Header
		greeting string
	}{
		{name: "falls back to root", greeting: "hello"},
		{name: "request override", header: http.Header{"X-Greeting": {"howdy"}}, greeting: "howdy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{"X-Request-Id": {"req-" + tt.greeting}}
			for k, v := range tt.header {
				header[k] = v
			}
			w := get(t, engine, "/whoami", header)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "req-"+tt.greeting, w.Header().Get("X-Request-ID"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "req-"+tt.greeting, body["id"])
			assert.Equal(t, tt.greeting, body["greeting"])
		})
	}

	// the override never reaches the root container
	g, err := core.Resolve[*greeter](root)
	require.NoError(t, err)
	assert.Equal(t, "hello", g.word)
}

func TestRequestScope_CleanedAfterRequest(t *testing.T) {
	loggingtest.Install(t)

	var scope *core.Container
	root := newRoot(t, web.WithRoutes(func(r web.Router) {
		r.GET("/scope", func(g *gin.Context) {
			scope = web.ScopeOf(g)
			assert.True(t, core.IsResolvable[web.RequestID](scope))
			g.Status(http.StatusNoContent)
		})
	}))

	w := get(t, web.Engine(root), "/scope", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, scope)
	assert.Same(t, root, scope.Parent())
	assert.False(t, core.IsResolvable[web.RequestID](scope))
	assert.True(t, core.IsResolvable[*greeter](scope), "parent is still reachable")
}

func TestMissingDependencyBecomesProblem(t *testing.T) {
	rec := loggingtest.Install(t)

	root := newRoot(t, web.WithRoutes(func(r web.Router) {
		r.GET("/broken", func(g *gin.Context) {
			h := &brokenHandler{Request: web.Request{Ctx: g}}
			g.JSON(http.StatusOK, gin.H{"port": h.port.Get(h)})
		})
	}))

	w := get(t, web.Engine(root), "/broken", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "dependency resolution failed: no_resolver", problem["detail"])
	assert.Len(t, rec.Fatals(), 1)
}

func TestRequestWithoutScope(t *testing.T) {
	assert.Nil(t, web.Request{}.Container())

	g, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, web.ScopeOf(g))
	assert.Nil(t, web.Request{Ctx: g}.Container())
}

func TestConfigureRegistersServer(t *testing.T) {
	root := newRoot(t)

	srv, err := core.Resolve[*http.Server](root)
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr)
	assert.Same(t, web.Engine(root), srv.Handler)
}

func TestConfigureRequiresConfig(t *testing.T) {
	err := web.Module().Configure(core.NewContainer())
	assert.ErrorIs(t, err, core.ErrNoResolver)
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	loggingtest.Install(t)

	var scoped web.RequestID
	root := newRoot(t, web.WithRoutes(func(r web.Router) {
		r.GET("/id", func(g *gin.Context) {
			scoped = core.MustResolve[web.RequestID](web.ScopeOf(g))
			g.Status(http.StatusNoContent)
		})
	}))

	w := get(t, web.Engine(root), "/id", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, web.RequestID(id), scoped)

	// standalone, without the rest of the module
	g, _ := gin.CreateTestContext(httptest.NewRecorder())
	g.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	g.Request.Header.Set("X-Request-ID", "given")
	web.RequestIDMiddleware()(g)
	assert.Equal(t, "given", g.Writer.Header().Get("X-Request-ID"))
}
