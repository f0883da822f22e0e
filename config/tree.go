// Package config loads benchmark session configuration and defines Tree,
// the key/value tree shared by configuration files and variant descriptors.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Tree is a configuration tree. Every value is either a string leaf or a
// nested Tree.
type Tree map[string]any

// Normalize converts a decoded document (as produced by viper, JSON or YAML
// decoders) into a Tree. Scalar leaves are converted to their string form;
// lists and null values are rejected. Keys are visited in sorted order so the
// same document always reports the same error.
func Normalize(raw map[string]any) (Tree, error) {
	tree := make(Tree, len(raw))

	for _, key := range Tree(raw).Keys() {
		switch v := raw[key].(type) {
		case Tree:
			sub, err := Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", key, err)
			}
			tree[key] = sub

		case map[string]any:
			sub, err := Normalize(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%w", key, err)
			}
			tree[key] = sub

		case nil:
			return nil, fmt.Errorf("%s: null values are not supported", key)

		case []any:
			return nil, fmt.Errorf("%s: lists are not supported", key)

		default:
			s, err := cast.ToStringE(v)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			tree[key] = s
		}
	}

	return tree, nil
}

// Get returns the value at a dot-separated path.
func (t Tree) Get(path string) (any, bool) {
	var cur any = t

	for _, part := range strings.Split(path, ".") {
		node, ok := cur.(Tree)
		if !ok {
			return nil, false
		}

		cur, ok = node[part]
		if !ok {
			return nil, false
		}
	}

	return cur, true
}

// Sub returns the subtree at path. It reports false if the path is missing
// or names a leaf.
func (t Tree) Sub(path string) (Tree, bool) {
	v, ok := t.Get(path)
	if !ok {
		return nil, false
	}

	sub, ok := v.(Tree)

	return sub, ok
}

// String returns the leaf at path.
func (t Tree) String(path string) (string, bool) {
	v, ok := t.Get(path)
	if !ok {
		return "", false
	}

	s, ok := v.(string)

	return s, ok
}

// StringOr returns the leaf at path or def when it is absent.
func (t Tree) StringOr(path, def string) string {
	if s, ok := t.String(path); ok {
		return s
	}

	return def
}

// Int parses the leaf at path as an integer, returning def when the path is
// absent.
func (t Tree) Int(path string, def int) (int, error) {
	s, ok := t.String(path)
	if !ok {
		if _, exists := t.Get(path); exists {
			return 0, fmt.Errorf("%s: expected a value, found a subtree", path)
		}

		return def, nil
	}

	n, err := cast.ToIntE(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return n, nil
}

// Float parses the leaf at path as a float, returning def when the path is
// absent.
func (t Tree) Float(path string, def float64) (float64, error) {
	s, ok := t.String(path)
	if !ok {
		if _, exists := t.Get(path); exists {
			return 0, fmt.Errorf("%s: expected a value, found a subtree", path)
		}

		return def, nil
	}

	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Keys returns the tree's keys in sorted order.
func (t Tree) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}

	out := make(Tree, len(t))
	for k, v := range t {
		if sub, ok := v.(Tree); ok {
			out[k] = sub.Clone()

			continue
		}
		out[k] = v
	}

	return out
}
