// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package service

import (
	"context"
	"net/http"

	"github.com/tochemey/goakt/v4/log"

	"github.com/icx-labs/localic/caller"
)

// CallerService exposes the counter and signing operations over HTTP.
type CallerService struct {
	backend *caller.Backend
	server  *httpServer
}

// NewCallerService creates the caller gateway on the given port.
func NewCallerService(backend *caller.Backend, port int, logger log.Logger) *CallerService {
	return &CallerService{
		backend: backend,
		server: &httpServer{
			name:   "caller service",
			port:   port,
			logger: logger,
		},
	}
}

type valueRequest struct {
	Value uint64 `json:"value"`
}

type valueResponse struct {
	Value uint64 `json:"value"`
}

type messageRequest struct {
	Message string `json:"message"`
}

type signatureResponse struct {
	Signature string `json:"signature"`
}

// Start begins serving in the background.
func (s *CallerService) Start() {
	s.server.start(s.Handler())
}

// Stop drains the gateway.
func (s *CallerService) Stop(ctx context.Context) error {
	return s.server.stop(ctx)
}

// Handler returns the routed gateway handler.
func (s *CallerService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/call-get-and-set", s.handleCallGetAndSet)
	mux.HandleFunc("POST /v1/set-then-get", s.handleSetThenGet)
	mux.HandleFunc("POST /v1/stubborn-set", s.handleStubbornSet)
	mux.HandleFunc("POST /v1/increment", s.handleIncrement)
	mux.HandleFunc("POST /v1/sign-message", s.handleSignMessage)
	return withRequestID(s.server.logger, mux)
}

func (s *CallerService) handleCallGetAndSet(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	previous, err := s.backend.CallGetAndSet(r.Context(), req.Value)
	countRequest("caller", "call_get_and_set", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, valueResponse{Value: previous})
}

func (s *CallerService) handleSetThenGet(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	current, err := s.backend.SetThenGet(r.Context(), req.Value)
	countRequest("caller", "set_then_get", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, valueResponse{Value: current})
}

func (s *CallerService) handleStubbornSet(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := s.backend.StubbornSet(r.Context(), req.Value)
	countRequest("caller", "stubborn_set", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, valueResponse{Value: req.Value})
}

func (s *CallerService) handleIncrement(w http.ResponseWriter, r *http.Request) {
	err := s.backend.CallIncrement(r.Context())
	countRequest("caller", "increment", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *CallerService) handleSignMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	signature, err := s.backend.SignMessage(r.Context(), req.Message)
	countRequest("caller", "sign_message", err)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, signatureResponse{Signature: signature})
}
