// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors that can be returned by this package. Since most of these errors are returned
// wrapped, it is safest to use errors.Is() to check for them.
var (
	ErrNilMeasures         = errors.New("measures cannot be nil")
	ErrInvalidConfig       = errors.New("resource factory config is invalid")
	ErrURLEmpty            = errors.New("resource URL is required")
	ErrInvalidURL          = errors.New("resource URL could not be parsed")
	ErrActionMethodEmpty   = errors.New("action method is required")
	ErrUnknownAction       = errors.New("resource has no such action")
	ErrInvalidParam        = errors.New("param value cannot be used in a URL")
	ErrAuthAcquirerFailure = errors.New("failed acquiring auth token")

	ErrNewRequestFailure  = errors.New("failed creating an HTTP request")
	ErrDoRequestFailure   = errors.New("http client failed while sending request")
	ErrReadingBodyFailure = errors.New("failed while reading http response body")
	ErrJSONMarshal        = errors.New("failed marshaling entity as JSON payload")
	ErrJSONUnmarshal      = errors.New("failed unmarshaling JSON response payload")

	ErrBadRequest           = errors.New("server rejected the request as invalid")
	ErrFailedAuthentication = errors.New("failed to authenticate with the server")
	ErrNotFound             = errors.New("server could not find the resource")
	ErrNonSuccessResponse   = errors.New("server responded with a non-success status code")
)

const (
	errWrappedFmt    = "%w: %s"
	errStatusCodeFmt = "%v: received status %d"
)

// StatusError is returned for any response outside the 2xx range.
type StatusError struct {
	Code int

	// ErrorHeader is the value of the X-Midt-Error response header, if any.
	ErrorHeader string

	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(errStatusCodeFmt, e.Unwrap(), e.Code)
}

// Unwrap returns a specific error for known status codes.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrFailedAuthentication
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrNonSuccessResponse
	}
}
