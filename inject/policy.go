package inject

import (
	"sync/atomic"

	"github.com/skekre98/wirebox/core"
)

// Policy decides which container serves the injection points of an owner.
// It reports false when it has no container for that owner.
type Policy interface {
	Container(owner any) (*core.Container, bool)
}

// Provider is implemented by owners that carry their own container, for use
// with FromEnclosingObject.
type Provider interface {
	Container() *core.Container
}

type singletonPolicy struct {
	container *core.Container
}

// Singleton always answers c, whatever the owner.
func Singleton(c *core.Container) Policy {
	return singletonPolicy{container: c}
}

func (p singletonPolicy) Container(any) (*core.Container, bool) {
	return p.container, p.container != nil
}

type enclosingObjectPolicy struct {
	fallback *core.Container
}

// FromEnclosingObject asks the owner for its container through Provider and
// uses fallback when the owner has none. fallback may be nil, in which case
// owners without a container fail.
func FromEnclosingObject(fallback *core.Container) Policy {
	return enclosingObjectPolicy{fallback: fallback}
}

func (p enclosingObjectPolicy) Container(owner any) (*core.Container, bool) {
	if provider, ok := owner.(Provider); ok {
		if c := provider.Container(); c != nil {
			return c, true
		}
	}
	return p.fallback, p.fallback != nil
}

// PolicyFunc adapts a function to Policy. A nil result means no container.
type PolicyFunc func(owner any) *core.Container

func (f PolicyFunc) Container(owner any) (*core.Container, bool) {
	c := f(owner)
	return c, c != nil
}

// Custom is shorthand for PolicyFunc(fn).
func Custom(fn func(owner any) *core.Container) Policy {
	return PolicyFunc(fn)
}

type policyHolder struct{ policy Policy }

var current atomic.Pointer[policyHolder]

// SetPolicy installs the process-wide policy used by injection points that
// were not given a container. Set it once at startup; tests reset it with
// ResetPolicy. A nil p is the same as ResetPolicy.
func SetPolicy(p Policy) {
	if p == nil {
		ResetPolicy()
		return
	}
	current.Store(&policyHolder{policy: p})
}

// CurrentPolicy returns the process-wide policy, if one is set.
func CurrentPolicy() (Policy, bool) {
	h := current.Load()
	if h == nil {
		return nil, false
	}
	return h.policy, true
}

// ResetPolicy clears the process-wide policy. Implicit lookups fail fatally
// until a new one is set.
func ResetPolicy() {
	current.Store(nil)
}
