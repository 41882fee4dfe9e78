package listing

import (
	"fmt"
	"sort"
	"strings"
)

// Walk recursively lists keys and subdirectories up to depth (0 = unlimited).
// A path that cannot be listed but can be read is returned as a single secret.
func Walk(l Lister, path string, depth int) ([]Entry, []error) {
	return walk(l, normalizeListPath(path), depth)
}

// Secrets returns only the secret leaves found by Walk, sorted.
func Secrets(l Lister, path string, depth int) ([]string, []error) {
	entries, errs := Walk(l, path, depth)
	var ret []string
	for _, e := range entries {
		if e.Type == "secret" {
			ret = append(ret, e.Path)
		}
	}
	return ret, errs
}

func walk(l Lister, path string, depth int) ([]Entry, []error) {
	var results []Entry
	var errs []error

	keys, err := l.ListSecrets(path)
	if err != nil || len(keys) == 0 {
		trimmed := strings.TrimSuffix(path, "/")
		if trimmed != "" {
			if _, err2 := l.GetSecrets(trimmed); err2 == nil {
				return []Entry{{Path: trimmed, Type: "secret"}}, nil
			}
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
		return results, errs
	}

	for _, k := range keys {
		full := path + k
		if !strings.HasSuffix(k, "/") {
			results = append(results, Entry{Path: full, Type: "secret"})
			continue
		}
		results = append(results, Entry{Path: full, Type: "directory"})
		if depth == 1 {
			continue
		}
		nextDepth := depth
		if nextDepth > 0 {
			nextDepth = depth - 1
		}
		sub, subErrs := walk(l, full, nextDepth)
		results = append(results, sub...)
		errs = append(errs, subErrs...)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, errs
}

func normalizeListPath(p string) string {
	p = strings.TrimSpace(p)
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if p != "" && !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
