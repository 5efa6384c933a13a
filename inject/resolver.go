package inject

import (
	"reflect"

	"github.com/skekre98/wirebox/core"
	"github.com/skekre98/wirebox/logging"
)

// alwaysFailRoot never gets a registration. Zero Resolvers resolve against
// it so that unbound handles fail with core.ErrNoResolver.
var alwaysFailRoot = core.NewContainer(core.WithName("always-fail-root"))

// Resolver is a handle on one key of one container. It is how a value is
// injected explicitly, e.g. into a function parameter:
//
//	inject.FromResolver(inject.ResolverFor[Clock](c))
type Resolver[T any] struct {
	container *core.Container
	alt       []core.Alternative
}

func ResolverFor[T any](c *core.Container, alt ...core.Alternative) Resolver[T] {
	return Resolver[T]{container: c, alt: alt}
}

func (r Resolver[T]) target() *core.Container {
	if r.container == nil {
		return alwaysFailRoot
	}
	return r.container
}

// Resolve uses the plain slot only.
func (r Resolver[T]) Resolve() (T, error) {
	return core.Resolve[T](r.target(), r.alt...)
}

func (r Resolver[T]) IsResolvable() bool {
	return core.IsResolvable[T](r.target(), r.alt...)
}

func (r Resolver[T]) String() string {
	return r.target().String() + ":" + core.KeyFor[T](r.alt...).String()
}

// resolveFor asks policy for the owner's container and resolves T from it,
// trying the parameterized slot (with owner as the parameter) before the
// plain one. The parameterized attempt is skipped when no such resolver is
// reachable, so observers only see it when it can succeed.
func resolveFor[T any](policy Policy, owner any, alt []core.Alternative) (T, error) {
	c, ok := policy.Container(owner)
	if !ok {
		logging.Die(logging.KindNoContainer, "can't find container for %s", typeOf(owner))
	}

	if core.IsResolvableWithParameter[T](c, alt...) {
		if v, err := core.ResolveWithParameter[T](c, owner, alt...); err == nil {
			return v, nil
		}
	}
	return core.Resolve[T](c, alt...)
}

func typeOf(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
