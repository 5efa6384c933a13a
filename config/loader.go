package config

import (
	"context"
	"fmt"
)

// Load merges Defaults and then every source in order (later sources win),
// binds the result into a Root and validates it.
//
//	cfg, err := config.Load(ctx,
//	    &source.FileSource{BasePath: "configs"},
//	    &source.EnvSource{},
//	    &source.CLISource{},
//	)
func Load(ctx context.Context, sources ...Source) (Root, error) {
	var cfg Root
	if err := LoadInto(ctx, &cfg, Defaults(), sources...); err != nil {
		return Root{}, err
	}
	return cfg, nil
}

// LoadInto is Load for an arbitrary target struct pointer and base layer.
func LoadInto(ctx context.Context, target any, base map[string]any, sources ...Source) error {
	merged := map[string]any{}
	mergeMaps(merged, base)

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		vals, err := src.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", src.Name(), err)
		}
		mergeMaps(merged, vals)
	}

	if err := NewBinder().Bind(merged, target); err != nil {
		return fmt.Errorf("failed to bind config: %w", err)
	}
	return nil
}
