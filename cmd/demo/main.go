package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skekre98/wirebox/actuator"
	"github.com/skekre98/wirebox/config"
	"github.com/skekre98/wirebox/config/source"
	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/inject"
	"github.com/skekre98/wirebox/logging"
	"github.com/skekre98/wirebox/metrics"
	"github.com/skekre98/wirebox/web"
)

var formal = core.Named("formal")

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type greeter struct {
	salutation string
	clock      *inject.Injected[Clock]
}

func (g *greeter) Greet(name string) string {
	return fmt.Sprintf("%s, %s (%s)", g.salutation, name, g.clock.Get(g).Now().Format(time.Kitchen))
}

// greetHandler is built per request; its injection points resolve through
// the request container.
type greetHandler struct {
	web.Request
	id     inject.Injected[web.RequestID]
	log    inject.Injected[*slog.Logger]
	casual inject.Injected[*greeter]
	formal *inject.Injected[*greeter]
}

func newGreetHandler(g *gin.Context) *greetHandler {
	return &greetHandler{
		Request: web.Request{Ctx: g},
		formal:  inject.Lazily[*greeter](inject.WithAlternative(formal)),
	}
}

func (h *greetHandler) serve() {
	name := h.Ctx.DefaultQuery("name", "world")
	g := h.casual.Get(h)
	if h.Ctx.Query("style") == "formal" {
		g = h.formal.Get(h)
	}
	h.log.Get(h).Debug("greeting", "name", name, "req_id", h.id.Get(h))
	h.Ctx.JSON(http.StatusOK, gin.H{"message": g.Greet(name)})
}

func main() {
	ctx := context.Background()

	// 1) config
	cfg, err := config.Load(ctx,
		&source.FileSource{BasePath: "configs", Profile: os.Getenv("WIREBOX_PROFILE")},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		panic(err)
	}

	// 2) logging
	logger := logging.New(cfg.Logging).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)
	logging.SetSink(logging.SlogSink{Logger: logger})

	// 3) root container and lookup policy
	reg := prometheus.NewRegistry()
	observer, err := metrics.New(reg)
	if err != nil {
		panic(err)
	}
	root := core.NewContainer(
		core.WithName(cfg.Container.Name),
		core.WithObserver(observer),
	)
	inject.SetPolicy(inject.FromEnclosingObject(root))

	core.Register(root, func() config.Root { return cfg })
	core.Register(root, func() prometheus.Gatherer { return reg })
	core.Register(root, func() Clock { return systemClock{} })
	core.RegisterWithParameter(root, func(owner any) *slog.Logger {
		return logger.With("component", fmt.Sprintf("%T", owner))
	})
	core.Register(root, func() *greeter {
		return &greeter{salutation: "Hi", clock: inject.Lazily[Clock]()}
	})
	core.Register(root, func() *greeter {
		return &greeter{salutation: "Good day", clock: inject.CapturingOnInit[Clock](inject.WithContainer(root))}
	}, formal)

	// 4) compose the app
	app := core.NewApp(
		logger,
		root,
		web.Module(
			web.WithRoutes(func(r web.Router) {
				r.GET("/greet", func(g *gin.Context) { newGreetHandler(g).serve() })
			}),
		),
		actuator.Module(),
	)
	app.LockAfterConfigure = cfg.Container.LockAfterConfigure

	// 5) run
	if err := app.Run(ctx); err != nil {
		logger.Error("app error", "error", err)
		os.Exit(1)
	}
}
