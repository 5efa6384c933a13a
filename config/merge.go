package config

import "strings"

// mergeMaps deep-merges src into dst. Keys are lowercased since sources
// disagree on case (env vars arrive lowercased, yaml keeps camelCase) and
// field matching is case-insensitive anyway. Nested maps from src are copied
// so later merges never write through to a caller's map. Mixed-case keys
// already in dst are folded too; an existing lowercase key wins.
func mergeMaps(dst, src map[string]any) {
	foldKeys(dst)
	for k, v := range src {
		k = strings.ToLower(k)
		mv, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = make(map[string]any, len(mv))
			dst[k] = existing
		}
		mergeMaps(existing, mv)
	}
}

func foldKeys(m map[string]any) {
	var mixed []string
	for k := range m {
		if strings.ToLower(k) != k {
			mixed = append(mixed, k)
		}
	}
	for _, k := range mixed {
		lower := strings.ToLower(k)
		if _, ok := m[lower]; !ok {
			m[lower] = m[k]
		}
		delete(m, k)
	}
}
