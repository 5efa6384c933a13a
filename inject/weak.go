package inject

import (
	"sync/atomic"
	"weak"

	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/logging"
)

// Weak injects a *T without keeping it alive. Other owners control the
// target's lifetime; once it has been collected Get returns nil, and the
// point does not resolve again.
//
// Factories registered for weak injection should hand out a pointer they do
// not retain strongly themselves, for instance through a weak.Pointer:
//
//	wp := weak.Make(service)
//	core.Register(c, func() *Service { return wp.Value() })
type Weak[T any] struct {
	alt      []core.Alternative
	optional bool
	policy   Policy

	ref    atomic.Pointer[weak.Pointer[T]]
	failed atomic.Bool
}

// Weakly captures WithContainer, or the current policy if one is set, and
// resolves on first access.
func Weakly[T any](opts ...Option) *Weak[T] {
	o := buildOptions(opts)
	w := &Weak[T]{alt: o.alt, optional: o.optional}
	if o.container != nil {
		w.policy = Singleton(o.container)
	} else if policy, ok := CurrentPolicy(); ok {
		w.policy = policy
	}
	return w
}

// Get returns the target, or nil once it has been collected or when the
// factory produced nil. A missing resolver is fatal unless the point is
// Optional.
func (w *Weak[T]) Get(owner any) *T {
	if ref := w.ref.Load(); ref != nil {
		return ref.Value()
	}
	if w.failed.Load() {
		return w.absent(owner)
	}

	policy := w.policy
	if policy == nil {
		var ok bool
		if policy, ok = CurrentPolicy(); !ok {
			logging.Die(logging.KindNoLookupPolicy,
				"lookup policy is not configured, can't resolve %s for %s",
				core.KeyFor[*T](w.alt...), typeOf(owner))
		}
	}

	v, err := resolveFor[*T](policy, owner, w.alt)
	if err != nil {
		w.failed.Store(true)
		return w.absent(owner)
	}

	ref := weak.Make(v)
	if !w.ref.CompareAndSwap(nil, &ref) {
		return w.ref.Load().Value()
	}
	return v
}

// Resolved reports whether resolution already happened, even if the target
// is gone by now.
func (w *Weak[T]) Resolved() bool {
	return w.ref.Load() != nil
}

func (w *Weak[T]) absent(owner any) *T {
	if !w.optional {
		logging.Die(logging.KindNoResolver,
			"can't find resolver for %s in %s object", core.KeyFor[*T](w.alt...), typeOf(owner))
	}
	return nil
}
