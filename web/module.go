package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skekre98/wirebox/config"
	"github.com/skekre98/wirebox/core"
)

const Name = "web"

// Engine returns the engine registered by the web module.
func Engine(c *core.Container) *gin.Engine {
	return core.MustResolve[*gin.Engine](c)
}

func Module(opts ...Option) core.Module {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &webModule{opts: options}
}

type webModule struct {
	opts   Options
	server *http.Server
}

func (m *webModule) Name() string        { return Name }
func (m *webModule) DependsOn() []string { return nil }

func (m *webModule) Configure(c *core.Container) error {
	cfg, err := core.Resolve[config.Root](c)
	if err != nil {
		return err
	}
	l := core.MustResolve[*slog.Logger](c)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// request ID first so the scope and the logs can see it
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryProblem(l))
	r.Use(AccessLog(l))
	r.Use(Scope(c, m.opts.Scopes...))
	r.Use(m.opts.Middlewares...)

	for _, reg := range m.opts.Routes {
		reg(r)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	core.Register(c, func() *gin.Engine { return r })
	core.Register(c, func() *http.Server { return srv })
	m.server = srv
	return nil
}

func (m *webModule) Start(_ context.Context, c *core.Container) error {
	l := core.MustResolve[*slog.Logger](c)
	go func() {
		l.Info("http server starting", "addr", m.server.Addr)
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (m *webModule) Stop(ctx context.Context, _ *core.Container) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
