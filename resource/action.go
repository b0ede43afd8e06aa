// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"net/http"
	"strings"
)

// Content types
const (
	JSONContentType = "application/json;charset=utf-8"
	FormContentType = "application/x-www-form-urlencoded"

	defaultAccept = "application/json, text/plain, */*"
)

// RequestTransformer turns the entity handed to an action into the request body.
type RequestTransformer func(entity any) (string, error)

// Action describes one verb of a resource.
type Action struct {
	// Method is the HTTP method used by the action.
	Method string

	// URL overrides the resource URL for this action.
	// (Optional)
	URL string

	// Params are merged over the resource defaults for this action.
	// (Optional)
	Params Params

	// Header is added to every request of this action.
	// (Optional)
	Header http.Header

	// ContentType is sent with request bodies.
	// (Optional). Defaults to JSONContentType.
	ContentType string

	// TransformRequest builds the request body from the entity. Its errors are
	// returned to the caller untouched.
	// (Optional). Defaults to JSON encoding.
	TransformRequest RequestTransformer
}

// Actions maps action names to their definitions.
type Actions map[string]Action

// Default action names.
const (
	GetAction    = "get"
	QueryAction  = "query"
	SaveAction   = "save"
	RemoveAction = "remove"
	DeleteAction = "delete"
)

var defaultActions = Actions{
	GetAction:    {Method: http.MethodGet},
	QueryAction:  {Method: http.MethodGet},
	SaveAction:   {Method: http.MethodPost},
	RemoveAction: {Method: http.MethodDelete},
	DeleteAction: {Method: http.MethodDelete},
}

type boundAction struct {
	Action
	route route
}

func hasBody(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
