package core

import (
	"github.com/skekre98/wirebox/logging"
)

// Register stores factory in the plain slot for T (and the first alt, if
// given), replacing any previous plain factory for that key.
//
//	core.Register(c, func() Clock { return systemClock{} })
//	core.Register(c, func() *sql.DB { return replica }, core.Named("replica"))
func Register[T any](c *Container, factory func() T, alt ...Alternative) {
	c.register(KeyFor[T](alt...), func() any { return factory() })
}

// RegisterWithParameter stores factory in the parameterized slot for T. The
// plain slot for the same key is left untouched. Injection points pass their
// owner as the parameter.
func RegisterWithParameter[T any](c *Container, factory func(parameter any) T, alt ...Alternative) {
	c.registerParameterized(KeyFor[T](alt...), func(p any) any { return factory(p) })
}

// Resolve invokes the plain factory for T from c or the nearest ancestor that
// has one. It returns an error wrapping ErrNoResolver when none does; a
// parameterized-only registration does not count.
func Resolve[T any](c *Container, alt ...Alternative) (T, error) {
	key := KeyFor[T](alt...)
	v, err := c.resolve(key)
	c.observe(key, false, err)
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// ResolveWithParameter is Resolve against the parameterized slot.
func ResolveWithParameter[T any](c *Container, parameter any, alt ...Alternative) (T, error) {
	key := KeyFor[T](alt...)
	v, err := c.resolveWithParameter(key, parameter)
	c.observe(key, true, err)
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// TryResolve is Resolve with the error folded into ok.
func TryResolve[T any](c *Container, alt ...Alternative) (T, bool) {
	v, err := Resolve[T](c, alt...)
	return v, err == nil
}

// MustResolve resolves T or dies through the container's diagnostic sink.
func MustResolve[T any](c *Container, alt ...Alternative) T {
	v, err := Resolve[T](c, alt...)
	if err != nil {
		logging.DieTo(c.diagnostics(), logging.KindNoResolver, err.Error())
	}
	return v
}

// IsResolvable reports whether either slot for T exists in c or any
// ancestor. No factory is invoked.
func IsResolvable[T any](c *Container, alt ...Alternative) bool {
	return c.isResolvable(KeyFor[T](alt...))
}

// IsResolvableWithParameter reports whether a parameterized slot for T
// exists in c or any ancestor.
func IsResolvableWithParameter[T any](c *Container, alt ...Alternative) bool {
	return c.isResolvableWithParameter(KeyFor[T](alt...))
}
