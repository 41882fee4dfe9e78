package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPathNotFound is returned by Lookup when a path segment does not exist.
var ErrPathNotFound = errors.New("path not found")

// Lookup walks a dot-separated path through nested maps and slices.
func Lookup(data interface{}, path string) (interface{}, error) {
	if path == "" {
		return data, nil
	}

	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		switch v := current.(type) {
		case map[string]interface{}:
			var ok bool
			current, ok = v[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' at path segment %d: %w", part, i+1, ErrPathNotFound)
			}
		case map[interface{}]interface{}:
			var ok bool
			current, ok = v[part]
			if !ok {
				return nil, fmt.Errorf("key '%s' at path segment %d: %w", part, i+1, ErrPathNotFound)
			}
		case []interface{}:
			idx, err := parseArrayIndex(part)
			if err != nil {
				return nil, fmt.Errorf("invalid array index '%s' at path segment %d: %w", part, i+1, err)
			}
			if idx < 0 || idx >= len(v) {
				return nil, fmt.Errorf("array index %d out of bounds (length %d) at path segment %d: %w", idx, len(v), i+1, ErrPathNotFound)
			}
			current = v[idx]
		default:
			return nil, fmt.Errorf("cannot navigate into %T at path segment %d: %w", current, i+1, ErrPathNotFound)
		}
	}

	return current, nil
}

// GetByPath returns the value at path and whether it exists.
func GetByPath(data map[string]interface{}, path string) (interface{}, bool) {
	if data == nil {
		return nil, false
	}
	v, err := Lookup(data, path)
	if err != nil {
		return nil, false
	}
	return v, true
}

// SetByPath stores value at path, creating intermediate maps as needed.
// Intermediate values that are not containers are replaced by maps.
func SetByPath(data map[string]interface{}, path string, value interface{}) error {
	if data == nil {
		return fmt.Errorf("cannot set %q on a nil map", path)
	}
	if path == "" {
		return fmt.Errorf("empty path")
	}

	parts := strings.Split(path, ".")
	var current interface{} = data

	for i, part := range parts {
		last := i == len(parts)-1
		switch v := current.(type) {
		case map[string]interface{}:
			if last {
				v[part] = value
				return nil
			}
			next, ok := v[part]
			if !isContainer(next) || !ok {
				next = map[string]interface{}{}
				v[part] = next
			}
			current = next
		case map[interface{}]interface{}:
			if last {
				v[part] = value
				return nil
			}
			next, ok := v[part]
			if !isContainer(next) || !ok {
				next = map[string]interface{}{}
				v[part] = next
			}
			current = next
		case []interface{}:
			idx, err := parseArrayIndex(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return fmt.Errorf("array index '%s' out of range at path segment %d", part, i+1)
			}
			if last {
				v[idx] = value
				return nil
			}
			if !isContainer(v[idx]) {
				v[idx] = map[string]interface{}{}
			}
			current = v[idx]
		}
	}
	return nil
}

func isContainer(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, map[interface{}]interface{}, []interface{}:
		return true
	}
	return false
}

func parseArrayIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
