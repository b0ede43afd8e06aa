// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package templatetest provides an in-memory metadata template server for
// tests. It accepts form and JSON bodies, remembers every request it receives
// and can be told to fail.
package templatetest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"sync"

	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/xmidt-org/candlelight"
	"github.com/xmidt-org/httpaux/erraux"
	"github.com/xmidt-org/linelist/jqparam"
	"github.com/xmidt-org/linelist/resource"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace/noop"
)

// BasePath is where the server mounts the template routes.
const BasePath = "/api/templates"

// request URL path keys
const idVarKey = "id"

// TraceParentHeaderKey is the W3C trace context header recorded with each
// request.
const TraceParentHeaderKey = "Traceparent"

var (
	errTemplateNotFound = &erraux.Error{
		Err:  errors.New("template not found"),
		Code: http.StatusNotFound,
	}
	errIDVarMissing = &erraux.Error{
		Err:  errors.New("{id} URL path parameter missing"),
		Code: http.StatusBadRequest,
	}
)

// Request is a request the server received.
type Request struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	TraceParent string
	Body        string
}

// Server is a running fake template server. Close it when done.
type Server struct {
	*httptest.Server

	store    *inMem
	lock     sync.Mutex
	requests []Request
	failNext int
}

type setTemplateRequest struct {
	id       string
	template Template
}

type setTemplateResponse struct {
	template Template
	created  bool
}

type templateIDRequest struct {
	id string
}

// NewServer starts a Server.
func NewServer() *Server {
	s := &Server{store: newInMem()}

	propagator := propagation.TraceContext{}
	options := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
	}

	itemPath := BasePath + "/{" + idVarKey + "}"
	router := mux.NewRouter()
	router.Use(
		s.record,
		otelmux.Middleware("templatetest",
			otelmux.WithTracerProvider(noop.NewTracerProvider()),
			otelmux.WithPropagators(propagator),
		),
		candlelight.EchoFirstTraceNodeInfo(propagator, false),
	)
	router.Handle(BasePath, kithttp.NewServer(s.setTemplate, decodeCreateRequest, encodeSetTemplateResponse, options...)).
		Methods(http.MethodPost)
	router.Handle(BasePath, kithttp.NewServer(s.getAllTemplates, decodeNoRequest, encodeJSONResponse, options...)).
		Methods(http.MethodGet)
	router.Handle(itemPath, kithttp.NewServer(s.setTemplate, decodeUpsertRequest, encodeSetTemplateResponse, options...)).
		Methods(http.MethodPost, http.MethodPut)
	router.Handle(itemPath, kithttp.NewServer(s.getTemplate, decodeTemplateIDRequest, encodeJSONResponse, options...)).
		Methods(http.MethodGet)
	router.Handle(itemPath, kithttp.NewServer(s.deleteTemplate, decodeTemplateIDRequest, encodeJSONResponse, options...)).
		Methods(http.MethodDelete)

	s.Server = httptest.NewServer(router)
	return s
}

// TemplatesURL is the absolute URL of the template collection.
func (s *Server) TemplatesURL() string {
	return s.URL + BasePath
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]Request(nil), s.requests...)
}

// FailNext makes the next request respond with code.
func (s *Server) FailNext(code int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failNext = code
}

// Template returns a stored template.
func (s *Server) Template(id string) (Template, bool) {
	return s.store.get(id)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			encodeError(r.Context(), &erraux.Error{Err: err, Code: http.StatusBadRequest}, rw)
			return
		}

		s.lock.Lock()
		s.requests = append(s.requests, Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			TraceParent: r.Header.Get(TraceParentHeaderKey),
			Body:        string(body),
		})
		code := s.failNext
		s.failNext = 0
		s.lock.Unlock()

		if code != 0 {
			encodeError(r.Context(), &erraux.Error{
				Err:  errors.New("failure requested by test"),
				Code: code,
			}, rw)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(rw, r)
	})
}

func (s *Server) setTemplate(_ context.Context, request interface{}) (interface{}, error) {
	r := request.(*setTemplateRequest)
	stored, created := s.store.push(r.id, r.template)
	return &setTemplateResponse{template: stored, created: created}, nil
}

func (s *Server) getAllTemplates(_ context.Context, _ interface{}) (interface{}, error) {
	return s.store.getAll(), nil
}

func (s *Server) getTemplate(_ context.Context, request interface{}) (interface{}, error) {
	t, ok := s.store.get(request.(*templateIDRequest).id)
	if !ok {
		return nil, errTemplateNotFound
	}
	return t, nil
}

func (s *Server) deleteTemplate(_ context.Context, request interface{}) (interface{}, error) {
	t, ok := s.store.delete(request.(*templateIDRequest).id)
	if !ok {
		return nil, errTemplateNotFound
	}
	return t, nil
}

// decodeCreateRequest takes the id, if any, from the body.
func decodeCreateRequest(_ context.Context, r *http.Request) (interface{}, error) {
	t, err := decodeTemplate(r)
	if err != nil {
		return nil, err
	}

	id, _ := t["id"].(string)
	if f, ok := t["id"].(float64); ok {
		id = fmt.Sprintf("%.0f", f)
	}
	return &setTemplateRequest{id: id, template: t}, nil
}

func decodeUpsertRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, ok := mux.Vars(r)[idVarKey]
	if !ok {
		return nil, errIDVarMissing
	}
	t, err := decodeTemplate(r)
	if err != nil {
		return nil, err
	}
	return &setTemplateRequest{id: id, template: t}, nil
}

func decodeTemplateIDRequest(_ context.Context, r *http.Request) (interface{}, error) {
	id, ok := mux.Vars(r)[idVarKey]
	if !ok {
		return nil, errIDVarMissing
	}
	return &templateIDRequest{id: id}, nil
}

func decodeNoRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

func decodeTemplate(r *http.Request) (Template, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &erraux.Error{Err: err, Code: http.StatusBadRequest}
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case resource.FormContentType:
		values, err := jqparam.Unmarshal(string(body))
		if err != nil {
			return nil, &erraux.Error{Err: err, Code: http.StatusBadRequest}
		}
		return Template(values), nil
	case "application/json":
		var t Template
		if err := json.Unmarshal(body, &t); err != nil {
			return nil, &erraux.Error{Err: err, Code: http.StatusBadRequest}
		}
		if t == nil {
			t = Template{}
		}
		return t, nil
	}
	return nil, &erraux.Error{
		Err:  fmt.Errorf("unsupported content type %q", mediaType),
		Code: http.StatusBadRequest,
	}
}

func encodeSetTemplateResponse(ctx context.Context, rw http.ResponseWriter, response interface{}) error {
	r := response.(*setTemplateResponse)
	code := http.StatusOK
	if r.created {
		code = http.StatusCreated
	}
	return writeJSON(rw, code, r.template)
}

func encodeJSONResponse(ctx context.Context, rw http.ResponseWriter, response interface{}) error {
	return writeJSON(rw, http.StatusOK, response)
}

func writeJSON(rw http.ResponseWriter, code int, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	rw.Write(data)
	return nil
}

// encodeError writes the status of an *erraux.Error, or 500 for any other
// error, with the error text in the X-Midt-Error header.
func encodeError(_ context.Context, err error, rw http.ResponseWriter) {
	code := http.StatusInternalServerError
	var httpErr *erraux.Error
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		err = httpErr.Err
	}
	rw.Header().Set(resource.ErrorHeaderKey, err.Error())
	rw.WriteHeader(code)
}
