package source

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "WIREBOX_"

// EnvSource loads prefixed environment variables. The remainder of each
// name is lowercased and split on underscores into nested keys:
//
//	WIREBOX_CONTAINER_NAME=api   -> {container: {name: "api"}}
//	WIREBOX_LOGGING_LEVEL=debug  -> {logging: {level: "debug"}}
//
// Values stay strings; the binder converts types. When a leaf already exists
// at a path, longer names under that path are skipped.
type EnvSource struct {
	Prefix string
	// Environ replaces os.Environ, mostly for tests.
	Environ func() []string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	environ := e.Environ
	if environ == nil {
		environ = os.Environ
	}
	return loadEnvVars(prefix, environ()), nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)

	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}

		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		if key == "" {
			continue
		}
		setNestedValue(result, strings.Split(key, "_"), value)
	}

	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m

	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			// a leaf already lives here
			return
		}
		current = nested
	}
}
