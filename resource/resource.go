// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package resource provides clients bound to a single REST endpoint. A
// Resource knows its URL template, the params applied to every call and a set
// of named actions, each of which may customize the HTTP method and how the
// request body is produced.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/bascule/acquire"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrorHeaderKey is the response header servers use to explain a failure.
const ErrorHeaderKey = "X-Midt-Error"

const errorHeaderLogKey = "errorHeader"

// Resource is a client bound to one endpoint. It is safe for concurrent use.
type Resource struct {
	factory  *Factory
	route    route
	defaults Params
	actions  map[string]boundAction
}

// Response is what the server sent back for a successful call.
type Response struct {
	Code   int
	Header http.Header
	Body   []byte
}

// Decode unmarshals a JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf(errWrappedFmt, ErrJSONUnmarshal, err.Error())
	}
	return nil
}

// URL returns the URL template the resource is bound to.
func (r *Resource) URL() string {
	return r.route.String()
}

// Action returns the definition of the named action.
func (r *Resource) Action(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a.Action, ok
}

// Get fetches a single entity.
func (r *Resource) Get(ctx context.Context, params Params) (*Response, error) {
	return r.Invoke(ctx, GetAction, params, nil)
}

// Query fetches a list of entities.
func (r *Resource) Query(ctx context.Context, params Params) (*Response, error) {
	return r.Invoke(ctx, QueryAction, params, nil)
}

// Save sends entity with the save action.
func (r *Resource) Save(ctx context.Context, entity any) (*Response, error) {
	return r.Invoke(ctx, SaveAction, nil, entity)
}

// Remove deletes entity, using it only to resolve params.
func (r *Resource) Remove(ctx context.Context, entity any) (*Response, error) {
	return r.Invoke(ctx, RemoveAction, nil, entity)
}

// Delete is the same as Remove.
func (r *Resource) Delete(ctx context.Context, entity any) (*Response, error) {
	return r.Invoke(ctx, DeleteAction, nil, entity)
}

// Invoke runs the named action. params override the resource and action
// params. entity is used to resolve "@" params and, for methods that carry a
// body, is transformed into the request body.
//
// Errors from the action's request transform are returned unchanged. Non-2xx
// responses are returned as a *StatusError.
func (r *Resource) Invoke(ctx context.Context, name string, params Params, entity any) (*Response, error) {
	action, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf(errWrappedFmt, ErrUnknownAction, name)
	}

	resolved, err := resolveParams(r.defaults, action.Params, params, entity)
	if err != nil {
		return nil, err
	}

	var (
		body        io.Reader
		contentType string
	)
	if hasBody(action.Method) && entity != nil {
		data, err := transform(action.Action, entity)
		if err != nil {
			return nil, err
		}
		body = strings.NewReader(data)
		contentType = action.ContentType
		if len(contentType) < 1 {
			contentType = JSONContentType
		}
	}

	resp, err := r.sendRequest(ctx, name, action.Action, action.route.expand(resolved), body, contentType)
	if err != nil {
		return nil, err
	}

	if resp.Code < 200 || resp.Code > 299 {
		l := r.factory.getLogger(ctx)
		if l == nil {
			l = r.factory.logger
		}
		l.Error("Server responded with a non-successful status code",
			zap.String("action", name), zap.Int("code", resp.Code), zap.String(errorHeaderLogKey, resp.Header.Get(ErrorHeaderKey)))
		return nil, &StatusError{
			Code:        resp.Code,
			ErrorHeader: resp.Header.Get(ErrorHeaderKey),
			Body:        resp.Body,
		}
	}

	return resp, nil
}

func transform(action Action, entity any) (string, error) {
	if action.TransformRequest != nil {
		return action.TransformRequest(entity)
	}

	data, err := json.Marshal(entity)
	if err != nil {
		return "", fmt.Errorf(errWrappedFmt, ErrJSONMarshal, err.Error())
	}
	return string(data), nil
}

func (r *Resource) sendRequest(ctx context.Context, name string, action Action, url string, body io.Reader, contentType string) (*Response, error) {
	ctx, span := r.factory.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	outcome := FailureOutcome
	defer func() {
		r.factory.measures.Requests.With(prometheus.Labels{
			ActionLabel:  name,
			MethodLabel:  action.Method,
			OutcomeLabel: outcome,
		}).Inc()
		if outcome != SuccessOutcome {
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, action.Method, url, body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrNewRequestFailure, err.Error())
	}
	r.factory.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))
	err = acquire.AddAuth(req, r.factory.auth)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrAuthAcquirerFailure, err.Error())
	}

	req.Header.Set("Accept", defaultAccept)
	if len(contentType) > 0 {
		req.Header.Set("Content-Type", contentType)
	}
	for k, values := range action.Header {
		req.Header.Del(k)
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.factory.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrDoRequestFailure, err.Error())
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(errWrappedFmt, ErrReadingBodyFailure, err.Error())
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		outcome = SuccessOutcome
	}
	return &Response{
		Code:   resp.StatusCode,
		Header: resp.Header,
		Body:   bodyBytes,
	}, nil
}
