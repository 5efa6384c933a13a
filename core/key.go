package core

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Alternative names one of several registrations of the same type.
type Alternative struct {
	name      string
	generated bool
}

// Named returns the alternative with the given name. Named("") is a valid
// alternative and is still distinct from the default slot.
func Named(name string) Alternative {
	return Alternative{name: name}
}

// NewAlternative returns an alternative with a random, globally unique name.
// Prefer Named where the name shows up in logs.
func NewAlternative() Alternative {
	return Alternative{name: uuid.NewString(), generated: true}
}

func (a Alternative) Name() string { return a.name }

func (a Alternative) String() string { return a.name }

// TypeKey identifies a registration slot: an abstract type plus an optional
// alternative. Keys built from interface types identify the interface, not
// whatever implementation happens to be registered.
type TypeKey struct {
	Type        reflect.Type
	Alternative string
	named       bool
	generated   bool
}

// KeyFor returns the key for T with at most one alternative. Extra
// alternatives are ignored.
func KeyFor[T any](alt ...Alternative) TypeKey {
	return keyOf(reflect.TypeFor[T](), alt)
}

func keyOf(typ reflect.Type, alt []Alternative) TypeKey {
	if len(alt) == 0 {
		return TypeKey{Type: typ}
	}
	return TypeKey{Type: typ, Alternative: alt[0].name, named: true, generated: alt[0].generated}
}

// IsDefault reports whether k addresses the default (unnamed) slot.
func (k TypeKey) IsDefault() bool { return !k.named }

// IsGenerated reports whether k's alternative came from NewAlternative.
func (k TypeKey) IsGenerated() bool { return k.generated }

func (k TypeKey) String() string {
	typeName := "<nil>"
	if k.Type != nil {
		typeName = k.Type.String()
	}
	if !k.named {
		return typeName
	}
	return fmt.Sprintf("%s[%s]", typeName, k.Alternative)
}
