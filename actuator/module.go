package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skekre98/wirebox/config"
	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/web"
)

const Name = "actuator"

type module struct{}

// Module mounts health, info, container and metrics routes on the web
// engine. Metrics are served from the prometheus.Gatherer registered in the
// container, or the default gatherer when there is none.
func Module() core.Module { return &module{} }

func (m *module) Name() string        { return Name }
func (m *module) DependsOn() []string { return []string{web.Name} }

func (m *module) Configure(c *core.Container) error {
	engine := web.Engine(c)
	cfg, err := core.Resolve[config.Root](c)
	if err != nil {
		return err
	}

	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status": "UP",
			"checks": []gin.H{},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"pid":          os.Getpid(),
			},
		})
	})

	group.GET("/container", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, describe(c))
	})

	if cfg.Observability.Metrics.Enabled {
		gatherer, ok := core.TryResolve[prometheus.Gatherer](c)
		if !ok {
			gatherer = prometheus.DefaultGatherer
		}
		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		group.GET(path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return nil
}

func (m *module) Start(_ context.Context, _ *core.Container) error { return nil }
func (m *module) Stop(_ context.Context, _ *core.Container) error  { return nil }

type containerView struct {
	Name          string         `json:"name"`
	Locked        bool           `json:"locked"`
	Registrations []string       `json:"registrations"`
	Parent        *containerView `json:"parent,omitempty"`
}

// describe walks c and its ancestors.
func describe(c *core.Container) *containerView {
	if c == nil {
		return nil
	}
	keys := c.Keys()
	regs := make([]string, 0, len(keys))
	for _, k := range keys {
		regs = append(regs, k.String())
	}
	return &containerView{
		Name:          c.Name(),
		Locked:        c.IsLocked(),
		Registrations: regs,
		Parent:        describe(c.Parent()),
	}
}
