package core

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/skekre98/wirebox/logging"
)

type (
	plainFn func() any
	paramFn func(parameter any) any
)

// registry holds the two independent resolver slots of a container. Plain
// and parameterized registrations never shadow each other.
type registry struct {
	plain         map[TypeKey]plainFn
	parameterized map[TypeKey]paramFn
}

func newRegistry() registry {
	return registry{
		plain:         make(map[TypeKey]plainFn),
		parameterized: make(map[TypeKey]paramFn),
	}
}

func (r registry) clone() registry {
	out := registry{
		plain:         make(map[TypeKey]plainFn, len(r.plain)),
		parameterized: make(map[TypeKey]paramFn, len(r.parameterized)),
	}
	for k, f := range r.plain {
		out.plain[k] = f
	}
	for k, f := range r.parameterized {
		out.parameterized[k] = f
	}
	return out
}

// Observer is told about every top-level resolve call on a container.
type Observer interface {
	ObserveResolve(container string, key TypeKey, parameterized bool, err error)
}

// Container maps type keys to factories and falls back to its parent on a
// miss. It never caches factory results; a factory that closes over an
// existing value behaves as a singleton.
//
// All methods are safe for concurrent use. Lock freezes the registry so
// reads skip the mutex entirely.
type Container struct {
	name     string
	parent   *Container
	observer Observer
	sink     logging.Sink

	mu  sync.RWMutex
	reg registry
	// frozen is non-nil while the container is locked.
	frozen atomic.Pointer[registry]
}

type Option func(*Container)

// WithParent sets the container consulted on a local miss. The parent is
// not owned by the child.
func WithParent(parent *Container) Option {
	return func(c *Container) { c.parent = parent }
}

// WithName sets the name used in diagnostics.
func WithName(name string) Option {
	return func(c *Container) { c.name = name }
}

func WithObserver(o Observer) Option {
	return func(c *Container) { c.observer = o }
}

// WithSink routes the container's diagnostics to s instead of the
// process-wide sink.
func WithSink(s logging.Sink) Option {
	return func(c *Container) { c.sink = s }
}

func NewContainer(opts ...Option) *Container {
	c := &Container{
		name: "anonymous",
		reg:  newRegistry(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Container) Name() string { return c.name }

func (c *Container) Parent() *Container { return c.parent }

func (c *Container) String() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.String() + "/" + c.name
}

func (c *Container) diagnostics() logging.Sink {
	if c.sink != nil {
		return c.sink
	}
	return logging.CurrentSink()
}

func (c *Container) register(key TypeKey, f plainFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen.Load() != nil {
		c.rejectLocked(key)
		return
	}
	c.reg.plain[key] = f
}

func (c *Container) registerParameterized(key TypeKey, f paramFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen.Load() != nil {
		c.rejectLocked(key)
		return
	}
	c.reg.parameterized[key] = f
}

func (c *Container) rejectLocked(key TypeKey) {
	c.diagnostics().Log(slog.LevelError,
		fmt.Sprintf("container %q is locked, registration of %s rejected", c.name, key),
		logging.Caller(3),
	)
}

// lookupPlain and lookupParameterized read only the local registry.
func (c *Container) lookupPlain(key TypeKey) (plainFn, bool) {
	if r := c.frozen.Load(); r != nil {
		f, ok := r.plain[key]
		return f, ok
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.reg.plain[key]
	return f, ok
}

func (c *Container) lookupParameterized(key TypeKey) (paramFn, bool) {
	if r := c.frozen.Load(); r != nil {
		f, ok := r.parameterized[key]
		return f, ok
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.reg.parameterized[key]
	return f, ok
}

func (c *Container) hasLocal(key TypeKey) bool {
	if _, ok := c.lookupPlain(key); ok {
		return true
	}
	_, ok := c.lookupParameterized(key)
	return ok
}

// resolve walks the parent chain at call time, so registrations added to a
// parent after the child was created are visible. Factories run outside of
// any lock and may resolve from the same container.
func (c *Container) resolve(key TypeKey) (any, error) {
	for cur := c; cur != nil; cur = cur.parent {
		if f, ok := cur.lookupPlain(key); ok {
			return f(), nil
		}
	}
	return nil, &ResolveError{Key: key, Container: c.name}
}

func (c *Container) resolveWithParameter(key TypeKey, parameter any) (any, error) {
	for cur := c; cur != nil; cur = cur.parent {
		if f, ok := cur.lookupParameterized(key); ok {
			return f(parameter), nil
		}
	}
	return nil, &ResolveError{Key: key, Container: c.name, Parameterized: true}
}

func (c *Container) isResolvable(key TypeKey) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.hasLocal(key) {
			return true
		}
	}
	return false
}

func (c *Container) isResolvableWithParameter(key TypeKey) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if _, ok := cur.lookupParameterized(key); ok {
			return true
		}
	}
	return false
}

func (c *Container) observe(key TypeKey, parameterized bool, err error) {
	if c.observer != nil {
		c.observer.ObserveResolve(c.name, key, parameterized, err)
	}
}

// Cleanup removes every plain and parameterized resolver. It is allowed on a
// locked container and leaves it locked.
func (c *Container) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reg = newRegistry()
	if c.frozen.Load() != nil {
		empty := newRegistry()
		c.frozen.Store(&empty)
	}
}

// Lock freezes the registry. Further registrations are rejected and logged,
// and reads no longer take the mutex.
func (c *Container) Lock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen.Load() != nil {
		return
	}
	snapshot := c.reg.clone()
	c.frozen.Store(&snapshot)
}

func (c *Container) Unlock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen.Store(nil)
}

func (c *Container) IsLocked() bool {
	return c.frozen.Load() != nil
}

// Keys lists the local registrations (both slots, deduplicated), sorted by
// their string form. Parents are not included.
func (c *Container) Keys() []TypeKey {
	var r registry
	if f := c.frozen.Load(); f != nil {
		r = *f
	} else {
		c.mu.RLock()
		defer c.mu.RUnlock()
		r = c.reg
	}

	seen := make(map[TypeKey]struct{}, len(r.plain)+len(r.parameterized))
	keys := make([]TypeKey, 0, len(r.plain)+len(r.parameterized))
	for k := range r.plain {
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	for k := range r.parameterized {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}
