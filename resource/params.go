// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/xmidt-org/linelist/jqparam"
)

// Params supply values for URL placeholders and the query string.
//
// A string value starting with "@" is a dotted path into the entity of the
// call, so {"id": "@id"} takes the id of whatever entity is being saved.
// A ParamFunc value is called with the entity. Anything else is used as is.
type Params map[string]any

// ParamFunc computes a param value from the entity of a call.
type ParamFunc func(entity any) any

func (p Params) clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

type resolvedParams struct {
	values map[string]string

	// derived marks values that came out of the entity.
	derived map[string]bool
}

// resolveParams merges the resource defaults, the action params and the call
// params, in that order of precedence, evaluating entity references along the
// way. A nil call param removes the key.
func resolveParams(defaults, actionParams, callParams Params, entity any) (resolvedParams, error) {
	r := resolvedParams{
		values:  map[string]string{},
		derived: map[string]bool{},
	}

	merged := defaults.clone()
	for k, v := range actionParams {
		merged[k] = v
	}

	for k, v := range merged {
		derived := false
		switch val := v.(type) {
		case string:
			if strings.HasPrefix(val, "@") {
				v, _ = jqparam.Lookup(entity, val[1:])
				derived = true
			}
		case ParamFunc:
			v = val(entity)
			derived = true
		case func(any) any:
			v = val(entity)
			derived = true
		}
		if err := r.set(k, v, derived); err != nil {
			return r, err
		}
	}

	for k, v := range callParams {
		delete(r.values, k)
		delete(r.derived, k)
		if err := r.set(k, v, false); err != nil {
			return r, err
		}
	}

	return r, nil
}

func (r resolvedParams) set(key string, v any, derived bool) error {
	if v == nil {
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalidParam, key, err.Error())
	}
	if len(s) < 1 {
		return nil
	}
	r.values[key] = s
	if derived {
		r.derived[key] = true
	}
	return nil
}
