// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package jqparam

import (
	"reflect"
	"strings"
)

type field struct {
	name  string
	value reflect.Value
}

// fieldsOf lists the encodable fields of a struct in declaration order.
// Names come from the form tag, then the json tag, then the Go field name.
// Exported anonymous struct fields without a tag name are flattened.
func fieldsOf(rv reflect.Value) []field {
	var fields []field
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, omitEmpty, skip := parseTag(sf)
		if skip {
			continue
		}

		if !sf.IsExported() {
			continue
		}

		fv := rv.Field(i)
		if sf.Anonymous && name == "" {
			if fv.Kind() == reflect.Pointer && fv.IsNil() && sf.Type.Elem().Kind() == reflect.Struct {
				continue
			}
			ev, ok := indirect(fv)
			if ok && ev.Kind() == reflect.Struct {
				fields = append(fields, fieldsOf(ev)...)
				continue
			}
		}

		if omitEmpty && fv.IsZero() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		fields = append(fields, field{name: name, value: fv})
	}
	return fields
}

func parseTag(sf reflect.StructField) (name string, omitEmpty bool, skip bool) {
	tag, ok := sf.Tag.Lookup("form")
	if !ok {
		tag, ok = sf.Tag.Lookup("json")
	}
	if !ok {
		return "", false, false
	}
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// Lookup follows a dotted path such as "owner.id" through maps and structs
// and returns the value found there. Struct fields are matched by their
// encoded name. Lookup reports false when any step is missing or nil, and
// when the final value is a zero value of an omitempty field.
func Lookup(v any, path string) (any, bool) {
	rv := reflect.ValueOf(v)
	for _, step := range strings.Split(path, ".") {
		var ok bool
		rv, ok = indirect(rv)
		if !ok {
			return nil, false
		}

		switch rv.Kind() {
		case reflect.Map:
			var key reflect.Value
			switch rv.Type().Key().Kind() {
			case reflect.String:
				key = reflect.ValueOf(step).Convert(rv.Type().Key())
			case reflect.Interface:
				key = reflect.ValueOf(step)
			default:
				return nil, false
			}
			rv = rv.MapIndex(key)
			if !rv.IsValid() {
				return nil, false
			}
		case reflect.Struct:
			found := false
			for _, f := range fieldsOf(rv) {
				if f.name == step {
					rv, found = f.value, true
					break
				}
			}
			if !found {
				return nil, false
			}
		default:
			return nil, false
		}
	}

	rv, ok := indirect(rv)
	if !ok {
		return nil, false
	}
	return rv.Interface(), true
}
