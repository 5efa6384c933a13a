package config

import "context"

// Source is one layer of configuration data.
//
// Load returns a string-keyed, possibly nested map. Implementations must
// return a fresh map on every call since Load merges into it.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
	// Name identifies the source in error messages, e.g. "file" or "env".
	Name() string
}
