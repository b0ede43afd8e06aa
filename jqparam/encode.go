// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package jqparam serializes structured values into the
// application/x-www-form-urlencoded dialect produced by jQuery's $.param,
// where nested objects and arrays are flattened with bracket notation:
//
//	{"name": "New", "fields": ["age", "sex"]}  =>  fields[0]=age&fields[1]=sex&name=New
//
// Map keys are emitted in sorted order. Struct fields are emitted in
// declaration order, which is the only way to control the order of the
// top level keys.
package jqparam

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DefaultMaxDepth is the nesting limit used by Marshal.
const DefaultMaxDepth = 32

const isoTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	ErrUnsupportedType  = errors.New("value cannot be form encoded")
	ErrMaxDepthExceeded = errors.New("value is nested too deeply to be form encoded")
)

var (
	timeType          = reflect.TypeOf(time.Time{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Encoder holds the options used when form encoding a value. The zero value
// is ready to use.
type Encoder struct {
	// MaxDepth is how deep objects and arrays may nest before encoding fails.
	// This is what stops self-referencing pointers.
	// (Optional). Defaults to DefaultMaxDepth.
	MaxDepth int
}

type pair struct {
	key   string
	value string
}

// Marshal form encodes v with the default Encoder.
func Marshal(v any) (string, error) {
	return Encoder{}.Marshal(v)
}

// Marshal form encodes v. v must be a map, a struct or a pointer to either;
// a nil v encodes to the empty string.
func (e Encoder) Marshal(v any) (string, error) {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	rv, ok := indirect(reflect.ValueOf(v))
	if !ok {
		return "", nil
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		if rv.Type() == timeType {
			return "", fmt.Errorf("%w: top level value of type %s", ErrUnsupportedType, rv.Type())
		}
	default:
		return "", fmt.Errorf("%w: top level value of type %s", ErrUnsupportedType, rv.Type())
	}

	s := serializer{maxDepth: maxDepth}
	if err := s.object(rv, "", true, 0); err != nil {
		return "", err
	}

	var b strings.Builder
	for i, p := range s.parts {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.key))
		b.WriteByte('=')
		b.WriteString(escape(p.value))
	}
	return b.String(), nil
}

type serializer struct {
	parts    []pair
	maxDepth int
}

func (s *serializer) value(rv reflect.Value, prefix string, depth int) error {
	if depth > s.maxDepth {
		return fmt.Errorf("%w: %s", ErrMaxDepthExceeded, prefix)
	}

	rv, ok := indirect(rv)
	if !ok {
		s.parts = append(s.parts, pair{key: prefix})
		return nil
	}

	if rv.Type() == timeType {
		t := rv.Interface().(time.Time)
		s.parts = append(s.parts, pair{key: prefix, value: t.UTC().Format(isoTimeLayout)})
		return nil
	}

	if m, ok := textMarshaler(rv); ok {
		text, err := m.MarshalText()
		if err != nil {
			return fmt.Errorf("%s: %w", prefix, err)
		}
		s.parts = append(s.parts, pair{key: prefix, value: string(text)})
		return nil
	}

	switch rv.Kind() {
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			s.parts = append(s.parts, pair{key: prefix, value: string(rv.Bytes())})
			return nil
		}
		fallthrough
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := s.value(rv.Index(i), fmt.Sprintf("%s[%d]", prefix, i), depth+1); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map, reflect.Struct:
		return s.object(rv, prefix, false, depth)
	}

	str, err := scalar(rv)
	if err != nil {
		return fmt.Errorf("%w: %s has type %s", ErrUnsupportedType, prefix, rv.Type())
	}
	s.parts = append(s.parts, pair{key: prefix, value: str})
	return nil
}

// scalar renders strings, booleans and numbers, including named types built
// on them.
func scalar(rv reflect.Value) (string, error) {
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return cast.ToStringE(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToStringE(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cast.ToStringE(rv.Uint())
	case reflect.Float32:
		return cast.ToStringE(float32(rv.Float()))
	case reflect.Float64:
		return cast.ToStringE(rv.Float())
	}
	return "", ErrUnsupportedType
}

func textMarshaler(rv reflect.Value) (encoding.TextMarshaler, bool) {
	if rv.Type().Implements(textMarshalerType) {
		return rv.Interface().(encoding.TextMarshaler), true
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(textMarshalerType) {
		return rv.Addr().Interface().(encoding.TextMarshaler), true
	}
	return nil, false
}

func (s *serializer) object(rv reflect.Value, prefix string, topLevel bool, depth int) error {
	if depth > s.maxDepth {
		return fmt.Errorf("%w: %s", ErrMaxDepthExceeded, prefix)
	}

	childKey := func(name string) string {
		if topLevel {
			return name
		}
		return prefix + "[" + name + "]"
	}

	if rv.Kind() == reflect.Map {
		keys, err := sortedKeys(rv)
		if err != nil {
			where := prefix
			if topLevel {
				where = "(top level)"
			}
			return fmt.Errorf("%w: %s", err, where)
		}
		for _, k := range keys {
			if err := s.value(rv.MapIndex(k.value), childKey(k.name), depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, f := range fieldsOf(rv) {
		if err := s.value(f.value, childKey(f.name), depth+1); err != nil {
			return err
		}
	}
	return nil
}

type mapKey struct {
	name  string
	value reflect.Value
}

func sortedKeys(rv reflect.Value) ([]mapKey, error) {
	keys := make([]mapKey, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		kv, ok := indirect(iter.Key())
		if !ok {
			return nil, fmt.Errorf("%w: nil map key", ErrUnsupportedType)
		}
		name, err := scalar(kv)
		if err != nil {
			return nil, fmt.Errorf("%w: map key of type %s", err, kv.Type())
		}
		keys = append(keys, mapKey{name: name, value: iter.Key()})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].name < keys[j].name
	})
	return keys, nil
}

// indirect follows pointers and interfaces. It reports false when it reaches
// a nil.
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for {
		if !rv.IsValid() {
			return rv, false
		}
		switch rv.Kind() {
		case reflect.Pointer:
			if rv.IsNil() {
				return rv, false
			}
			rv = rv.Elem()
		case reflect.Interface:
			if rv.IsNil() {
				return rv, false
			}
			rv = rv.Elem()
		default:
			return rv, true
		}
	}
}
