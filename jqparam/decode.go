// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package jqparam

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrMalformedKey    = errors.New("form key has unbalanced brackets")
	ErrConflictingKeys = errors.New("form key is used both as a value and as an object")
)

// Unmarshal decodes a bracket encoded form body back into nested values.
// Objects become map[string]any and leaf values are strings. Any object whose
// keys are exactly 0..n-1 becomes a []any, so encoded arrays round trip.
// An empty index (key[]) appends to the array. A key repeated without
// brackets is collected into an array as well.
func Unmarshal(body string) (map[string]any, error) {
	root := map[string]any{}
	for _, part := range strings.Split(body, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedKey, err.Error())
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}

		path, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		if err := insert(root, path, value); err != nil {
			return nil, fmt.Errorf("%w: %s", err, key)
		}
	}

	for k, v := range root {
		root[k] = listify(v)
	}
	return root, nil
}

// splitKey turns "a[b][0]" into ["a", "b", "0"].
func splitKey(key string) ([]string, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.IndexByte(key, ']') >= 0 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedKey, key)
		}
		return []string{key}, nil
	}
	if open == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformedKey, key)
	}

	path := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, fmt.Errorf("%w: %s", ErrMalformedKey, key)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedKey, key)
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path, nil
}

func insert(node map[string]any, path []string, value string) error {
	for i, step := range path {
		if step == "" {
			step = strconv.Itoa(len(node))
		}

		if i == len(path)-1 {
			switch existing := node[step].(type) {
			case nil:
				node[step] = value
			case string:
				node[step] = map[string]any{"0": existing, "1": value}
			case map[string]any:
				if !isList(existing) {
					return ErrConflictingKeys
				}
				existing[strconv.Itoa(len(existing))] = value
			}
			return nil
		}

		switch child := node[step].(type) {
		case nil:
			next := map[string]any{}
			node[step] = next
			node = next
		case map[string]any:
			node = child
		default:
			return ErrConflictingKeys
		}
	}
	return nil
}

func isList(m map[string]any) bool {
	for i := 0; i < len(m); i++ {
		if _, ok := m[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}

func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = listify(child)
	}
	if len(m) == 0 || !isList(m) {
		return m
	}

	list := make([]any, len(m))
	for i := range list {
		list[i] = m[strconv.Itoa(i)]
	}
	return list
}
