// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package templatetest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/httpaux/erraux"
	"github.com/xmidt-org/linelist/resource"
)

type ServerTestSuite struct {
	suite.Suite
	server *Server
}

func (s *ServerTestSuite) SetupTest() {
	s.server = NewServer()
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ServerTestSuite) do(method, path, contentType, body string) (*http.Response, Template) {
	return s.doWithHeader(method, path, contentType, body, nil)
}

func (s *ServerTestSuite) doWithHeader(method, path, contentType, body string, header http.Header) (*http.Response, Template) {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if len(contentType) > 0 {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	var t Template
	if len(data) > 0 && data[0] == '{' {
		s.Require().NoError(json.Unmarshal(data, &t))
	}
	return resp, t
}

func (s *ServerTestSuite) TestCreateFromForm() {
	resp, t := s.do(http.MethodPost, BasePath, resource.FormContentType, "name=New&fields%5B0%5D=age&fields%5B1%5D=sex")
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(Template{"id": "1", "name": "New", "fields": []any{"age", "sex"}}, t)

	stored, ok := s.server.Template("1")
	s.True(ok)
	s.Equal(t, stored)
}

func (s *ServerTestSuite) TestUpdateByBodyID() {
	s.do(http.MethodPost, BasePath, resource.FormContentType, "id=5&name=Flu%20Panel")
	resp, t := s.do(http.MethodPost, BasePath, resource.FormContentType, "id=5&name=Flu%20Panel%202")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Flu Panel 2", t["name"])

	// new ids continue after the highest one seen
	_, created := s.do(http.MethodPost, BasePath, resource.FormContentType, "name=next")
	s.Equal("6", created["id"])
}

func (s *ServerTestSuite) TestJSONAndPathID() {
	resp, t := s.do(http.MethodPut, BasePath+"/42", "application/json;charset=utf-8", `{"name":"Listeria"}`)
	s.Equal(http.StatusCreated, resp.StatusCode)
	s.Equal(Template{"id": "42", "name": "Listeria"}, t)

	resp, t = s.do(http.MethodGet, BasePath+"/42", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("Listeria", t["name"])

	resp, _ = s.do(http.MethodDelete, BasePath+"/42", "", "")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, BasePath+"/42", "", "")
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("template not found", resp.Header.Get(resource.ErrorHeaderKey))
}

func (s *ServerTestSuite) TestList() {
	s.do(http.MethodPost, BasePath+"/10", resource.FormContentType, "name=b")
	s.do(http.MethodPost, BasePath+"/9", resource.FormContentType, "name=a")

	resp, err := s.server.Client().Get(s.server.TemplatesURL())
	s.Require().NoError(err)
	defer resp.Body.Close()

	var list []Template
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&list))
	s.Equal([]Template{{"id": "9", "name": "a"}, {"id": "10", "name": "b"}}, list)
}

func (s *ServerTestSuite) TestBadBodies() {
	resp, _ := s.do(http.MethodPost, BasePath, "text/plain", "name=x")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, BasePath, resource.FormContentType, "a[b=c")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, BasePath, "application/json", "{")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *ServerTestSuite) TestFailNextAndRecording() {
	s.server.FailNext(http.StatusServiceUnavailable)
	resp, _ := s.do(http.MethodPost, BasePath+"?x=1", resource.FormContentType, "name=x")
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, BasePath, resource.FormContentType, "name=x")
	s.Equal(http.StatusCreated, resp.StatusCode)

	s.Equal([]Request{
		{Method: http.MethodPost, Path: BasePath, RawQuery: "x=1", ContentType: resource.FormContentType, Body: "name=x"},
		{Method: http.MethodPost, Path: BasePath, ContentType: resource.FormContentType, Body: "name=x"},
	}, s.server.Requests())
}

func (s *ServerTestSuite) TestTraceContext() {
	const (
		traceID     = "4bf92f3577b34da6a3ce929d0e0e4736"
		traceParent = "00-" + traceID + "-00f067aa0ba902b7-01"
	)

	resp, _ := s.doWithHeader(http.MethodPost, BasePath, resource.FormContentType, "name=traced",
		http.Header{TraceParentHeaderKey: []string{traceParent}})
	s.Equal(http.StatusCreated, resp.StatusCode)

	echoed := false
	for _, values := range resp.Header {
		for _, v := range values {
			echoed = echoed || v == traceID
		}
	}
	s.True(echoed, "trace id not echoed in %v", resp.Header)
	s.Equal(traceParent, s.server.Requests()[0].TraceParent)
}

func TestEncodeError(t *testing.T) {
	tcs := []struct {
		Description    string
		Err            error
		ExpectedCode   int
		ExpectedHeader string
	}{
		{
			Description:    "Status error",
			Err:            &erraux.Error{Err: errors.New("gone"), Code: http.StatusGone},
			ExpectedCode:   http.StatusGone,
			ExpectedHeader: "gone",
		},
		{
			Description:    "Wrapped status error",
			Err:            fmt.Errorf("lookup: %w", errTemplateNotFound),
			ExpectedCode:   http.StatusNotFound,
			ExpectedHeader: "template not found",
		},
		{
			Description:    "Plain error",
			Err:            errors.New("boom"),
			ExpectedCode:   http.StatusInternalServerError,
			ExpectedHeader: "boom",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			assert := assert.New(t)
			rw := httptest.NewRecorder()
			encodeError(context.Background(), tc.Err, rw)
			assert.Equal(tc.ExpectedCode, rw.Code)
			assert.Equal(tc.ExpectedHeader, rw.Header().Get(resource.ErrorHeaderKey))
		})
	}
}

func TestServer(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}
