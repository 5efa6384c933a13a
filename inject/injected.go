package inject

import (
	"sync/atomic"

	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/logging"
)

// Injected is a dependency of type T resolved once and cached. Owners keep
// it as a field and read it with themselves as the owner:
//
//	type Handler struct {
//	    store *inject.Injected[Store]
//	}
//
//	func NewHandler() *Handler {
//	    return &Handler{store: inject.CapturingOnInit[Store]()}
//	}
//
//	func (h *Handler) Store() Store { return h.store.Get(h) }
//
// The zero value behaves like Lazily with no options. An Injected must not
// be copied after first use.
//
// Concurrent first reads may each run the factory; the first value stored
// wins and every read after that returns it.
type Injected[T any] struct {
	alt      []core.Alternative
	optional bool
	// policy is captured at construction; nil means look it up on first
	// access.
	policy Policy

	value  atomic.Pointer[T]
	failed atomic.Bool
}

// Lazily finds the container and resolves on first access.
func Lazily[T any](opts ...Option) *Injected[T] {
	o := buildOptions(opts)
	p := &Injected[T]{alt: o.alt, optional: o.optional}
	if o.container != nil {
		p.policy = Singleton(o.container)
	}
	logging.Debugf("injecting (lazy): %s", core.KeyFor[T](o.alt...).String())
	return p
}

// CapturingOnInit captures WithContainer, or else the current process-wide
// policy, right away and resolves on first access. It dies if neither is
// available.
func CapturingOnInit[T any](opts ...Option) *Injected[T] {
	o := buildOptions(opts)
	p := &Injected[T]{alt: o.alt, optional: o.optional}
	switch policy, ok := CurrentPolicy(); {
	case o.container != nil:
		p.policy = Singleton(o.container)
	case ok:
		p.policy = policy
	default:
		logging.Die(logging.KindNoLookupPolicy,
			"lookup policy is not configured, can't capture it for %s", core.KeyFor[T](o.alt...).String())
	}
	return p
}

// ResolvingOnInit resolves immediately from WithContainer, or else from the
// container the current policy gives for a nil owner. Only plain resolvers
// can serve it since there is no owner to pass as a parameter.
func ResolvingOnInit[T any](opts ...Option) *Injected[T] {
	o := buildOptions(opts)
	c := o.container
	if c == nil {
		policy, ok := CurrentPolicy()
		if !ok {
			logging.Die(logging.KindNoLookupPolicy,
				"lookup policy is not configured, can't resolve %s on init", core.KeyFor[T](o.alt...).String())
		}
		if c, ok = policy.Container(nil); !ok {
			logging.Die(logging.KindNoContainer,
				"can't find container to resolve %s on init", core.KeyFor[T](o.alt...).String())
		}
	}
	return resolveEagerly(ResolverFor[T](c, o.alt...), o)
}

// FromResolver resolves r immediately.
func FromResolver[T any](r Resolver[T], opts ...Option) *Injected[T] {
	o := buildOptions(opts)
	o.alt = r.alt
	return resolveEagerly(r, o)
}

// Value returns an injection point that already holds v.
func Value[T any](v T) *Injected[T] {
	p := &Injected[T]{}
	p.value.Store(&v)
	return p
}

func resolveEagerly[T any](r Resolver[T], o options) *Injected[T] {
	p := &Injected[T]{alt: o.alt, optional: o.optional}
	v, err := r.Resolve()
	if err == nil {
		p.value.Store(&v)
		logging.Debugf("injecting (eager): %s", r)
		return p
	}

	p.failed.Store(true)
	switch {
	case o.optional:
	case r.IsResolvable():
		logging.Die(logging.KindParameterizedOnly,
			"parameterized resolvers are not supported for eager injection (%s)", r)
	default:
		logging.Die(logging.KindNoResolver, "dependency %s does not have a resolver", r)
	}
	return p
}

// Get returns the cached value, resolving it on first access. A required
// dependency that can't be resolved is fatal; an Optional one yields the
// zero value.
func (p *Injected[T]) Get(owner any) T {
	v, ok := p.load(owner)
	if !ok && !p.optional {
		logging.Die(logging.KindNoResolver,
			"can't find resolver for %s in %s object", core.KeyFor[T](p.alt...).String(), typeOf(owner))
	}
	return v
}

// Lookup is Get for callers that treat the dependency as optional: a missing
// resolver reports false instead of dying.
func (p *Injected[T]) Lookup(owner any) (T, bool) {
	return p.load(owner)
}

// Resolved reports whether a value is cached.
func (p *Injected[T]) Resolved() bool {
	return p.value.Load() != nil
}

func (p *Injected[T]) load(owner any) (T, bool) {
	if v := p.value.Load(); v != nil {
		return *v, true
	}
	var zero T
	if p.failed.Load() {
		return zero, false
	}

	policy := p.policy
	if policy == nil {
		var ok bool
		if policy, ok = CurrentPolicy(); !ok {
			logging.Die(logging.KindNoLookupPolicy,
				"lookup policy is not configured, can't resolve %s for %s",
				core.KeyFor[T](p.alt...).String(), typeOf(owner))
		}
	}

	v, err := resolveFor[T](policy, owner, p.alt)
	if err != nil {
		p.failed.Store(true)
		return zero, false
	}

	if !p.value.CompareAndSwap(nil, &v) {
		return *p.value.Load(), true
	}
	return v, true
}
