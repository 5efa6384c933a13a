package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"
)

type App struct {
	Modules   []Module
	Container *Container
	Logger    *slog.Logger
	// LockAfterConfigure freezes Container once every module is configured.
	LockAfterConfigure bool
	// ShutdownTimeout bounds Stop; zero means 15s.
	ShutdownTimeout time.Duration

	order []Module
}

// NewApp builds an app around root. The root container gets the logger and
// itself registered so modules can resolve both.
func NewApp(logger *slog.Logger, root *Container, mods ...Module) *App {
	Register(root, func() *slog.Logger { return logger })
	Register(root, func() *Container { return root })
	return &App{
		Modules:   mods,
		Container: root,
		Logger:    logger,
	}
}

// Configure orders modules by their dependencies and lets each one register
// into the root container, then locks it if requested.
func (a *App) Configure() error {
	order, err := topoSort(a.Modules)
	if err != nil {
		return err
	}

	for _, m := range order {
		if err := m.Configure(a.Container); err != nil {
			return fmt.Errorf("configure module %s: %w", m.Name(), err)
		}
	}
	a.order = order

	if a.LockAfterConfigure {
		a.Container.Lock()
		a.Logger.Info("container locked", "container", a.Container.Name(), "registrations", len(a.Container.Keys()))
	}
	return nil
}

// Start runs Configure if needed and starts modules in dependency order.
func (a *App) Start(ctx context.Context) error {
	if a.order == nil {
		if err := a.Configure(); err != nil {
			return err
		}
	}
	for _, m := range a.order {
		a.Logger.Info("starting module", "module", m.Name())
		if err := m.Start(ctx, a.Container); err != nil {
			return fmt.Errorf("start module %s: %w", m.Name(), err)
		}
	}
	return nil
}

// Stop stops modules in reverse order and returns the first error.
func (a *App) Stop(ctx context.Context) error {
	var firstErr error
	for i := len(a.order) - 1; i >= 0; i-- {
		m := a.order[i]
		a.Logger.Info("stopping module", "module", m.Name())
		if err := m.Stop(ctx, a.Container); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run starts the app, waits for ctx or SIGINT/SIGTERM, then stops it.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case <-ctx.Done():
	case <-stop:
	}

	timeout := a.ShutdownTimeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return a.Stop(shutdownCtx)
}

func topoSort(mods []Module) ([]Module, error) {
	nameToMod := map[string]Module{}
	for _, m := range mods {
		if _, dup := nameToMod[m.Name()]; dup {
			return nil, errors.New("duplicate module name: " + m.Name())
		}
		nameToMod[m.Name()] = m
	}
	visited := map[string]bool{}
	temp := map[string]bool{}
	out := make([]Module, 0, len(mods))
	var visit func(string) error

	visit = func(n string) error {
		if temp[n] {
			return errors.New("cycle detected at module " + n)
		}
		if visited[n] {
			return nil
		}
		temp[n] = true
		m := nameToMod[n]
		for _, d := range m.DependsOn() {
			if _, ok := nameToMod[d]; !ok {
				return errors.New("missing dependency: " + n + " depends on " + d)
			}
			if err := visit(d); err != nil {
				return err
			}
		}
		visited[n] = true
		temp[n] = false
		out = append(out, m)
		return nil
	}

	// Make iteration order stable.
	names := make([]string, 0, len(mods))
	for _, m := range mods {
		names = append(names, m.Name())
	}
	sort.Strings(names)

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return out, nil
}
