package cmdutil

import "strings"

// SelectorSet returns the non-empty selectors, trimmed, as a set.
func SelectorSet(selectors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(selectors))
	for _, s := range selectors {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// Select keeps the items whose key is named by selectors, in their original
// order. No selectors keeps everything. Selectors that match nothing are
// returned as missing.
func Select[T any](items []T, selectors []string, key func(T) string) ([]T, []string) {
	set := SelectorSet(selectors)
	if len(set) == 0 {
		return items, nil
	}
	found := make(map[string]bool, len(set))
	ret := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := set[k]; ok {
			ret = append(ret, item)
			found[k] = true
		}
	}
	var missing []string
	for _, s := range selectors {
		s = strings.TrimSpace(s)
		if _, ok := set[s]; ok && !found[s] {
			missing = append(missing, s)
			found[s] = true
		}
	}
	return ret, missing
}
