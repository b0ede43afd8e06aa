// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	type testCase struct {
		Description string
		Template    string
		Address     string
		Expected    route
		ExpectedErr error
	}

	tcs := []testCase{
		{
			Description: "Empty",
			Template:    " ",
			ExpectedErr: ErrURLEmpty,
		},
		{
			Description: "Unparseable",
			Template:    "http://[::1",
			ExpectedErr: ErrInvalidURL,
		},
		{
			Description: "Scheme without host",
			Template:    "mailto:someone",
			ExpectedErr: ErrInvalidURL,
		},
		{
			Description: "Absolute with port",
			Template:    "http://linelist.io:8080/api/templates/:id",
			Address:     "http://ignored.io",
			Expected:    route{origin: "http://linelist.io:8080", path: "/api/templates/:id"},
		},
		{
			Description: "Relative with address",
			Template:    "api/templates",
			Address:     "https://linelist.io/",
			Expected:    route{origin: "https://linelist.io", path: "/api/templates"},
		},
		{
			Description: "Relative without address",
			Template:    "/api/templates?project=:project#top",
			Expected:    route{path: "/api/templates", query: "project=:project"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			actual, err := parseRoute(tc.Template, tc.Address, false)
			if tc.ExpectedErr != nil {
				assert.True(errors.Is(err, tc.ExpectedErr), "unexpected error %v", err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.Expected, actual)
		})
	}
}

func TestExpand(t *testing.T) {
	type template struct {
		ID   int64  `json:"id,omitempty"`
		Name string `json:"name"`
	}

	type testCase struct {
		Description string
		Template    string
		Keep        bool
		Defaults    Params
		Call        Params
		Entity      any
		Expected    string
	}

	tcs := []testCase{
		{
			Description: "No placeholders and no id",
			Template:    "/api/templates",
			Defaults:    Params{"id": "@id"},
			Entity:      map[string]any{"name": "New"},
			Expected:    "/api/templates",
		},
		{
			Description: "Entity id without a placeholder is dropped",
			Template:    "/api/templates",
			Defaults:    Params{"id": "@id"},
			Entity:      template{ID: 5, Name: "Flu Panel"},
			Expected:    "/api/templates",
		},
		{
			Description: "Entity id fills the placeholder",
			Template:    "/api/templates/:id",
			Defaults:    Params{"id": "@id"},
			Entity:      &template{ID: 5},
			Expected:    "/api/templates/5",
		},
		{
			Description: "Missing id removes the segment",
			Template:    "/api/templates/:id",
			Defaults:    Params{"id": "@id"},
			Entity:      template{Name: "New"},
			Expected:    "/api/templates",
		},
		{
			Description: "Missing segment in the middle",
			Template:    "/api/projects/:project/templates/:id",
			Defaults:    Params{"id": "@id"},
			Entity:      map[string]any{"id": 3},
			Expected:    "/api/projects/templates/3",
		},
		{
			Description: "Extension folds onto the previous segment",
			Template:    "/api/templates/:id.json",
			Expected:    "/api/templates.json",
		},
		{
			Description: "Trailing slash kept",
			Template:    "/api/templates/:id/",
			Keep:        true,
			Expected:    "/api/templates/",
		},
		{
			Description: "Values are path escaped",
			Template:    "/api/templates/:name",
			Call:        Params{"name": "Flu Panel/2"},
			Expected:    "/api/templates/Flu%20Panel%2F2",
		},
		{
			Description: "Leftover call and literal params go to the query",
			Template:    "/api/templates?v=1",
			Defaults:    Params{"id": "@id", "format": "full"},
			Call:        Params{"project": 4, "q": "a b"},
			Entity:      map[string]any{"id": 9},
			Expected:    "/api/templates?v=1&format=full&project=4&q=a+b",
		},
		{
			Description: "Call params override entity params",
			Template:    "/api/templates/:id",
			Defaults:    Params{"id": "@id"},
			Call:        Params{"id": 11},
			Entity:      map[string]any{"id": 9},
			Expected:    "/api/templates/11",
		},
		{
			Description: "Param functions",
			Template:    "/api/:kind/:id",
			Defaults: Params{
				"kind": ParamFunc(func(entity any) any { return "templates" }),
				"id":   "@id",
			},
			Entity:   map[string]any{"id": "abc"},
			Expected: "/api/templates/abc",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			require := require.New(t)
			rt, err := parseRoute(tc.Template, "", tc.Keep)
			require.NoError(err)
			resolved, err := resolveParams(tc.Defaults, nil, tc.Call, tc.Entity)
			require.NoError(err)
			require.Equal(tc.Expected, rt.expand(resolved))
		})
	}
}

func TestResolveParamsInvalid(t *testing.T) {
	assert := assert.New(t)
	_, err := resolveParams(nil, nil, Params{"id": []string{"a"}}, nil)
	assert.True(errors.Is(err, ErrInvalidParam))
}
