// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package middleware provides the request logger, the secure headers and the panic recovery.
//
// The logger middleware assigns a request id (echoed in the X-Request-ID header) and logs the client ip,
// HTTP Method, URL, Proto, HTTP Status, response size and the requested time.
// On HTTP status < 400 an info will be logged, < 500 a warning, otherwise an error.
// The logger middleware should be used before all other middlewares.
package middleware

import (
	ctx "context"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/patrickascher/dynapi/controller/context"
	"github.com/patrickascher/dynapi/logger"
	"github.com/segmentio/ksuid"
)

// RequestIDHeader is the response header of the request id.
const RequestIDHeader = "X-Request-ID"

// requestIDKey of the request context.
type requestIDKey struct{}

// RequestID returns the request id of the context or an empty string.
func RequestID(c ctx.Context) string {
	if id, ok := c.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// log struct
type log struct {
	manager logger.Manager
}

// NewLogger creates a new logger.
func NewLogger(manager logger.Manager) *log {
	return &log{manager: manager}
}

// MW must be passed to the middleware.
func (l *log) MW(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		log := l.manager.WithFields(logger.Fields{"request_id": id}).WithTimer()

		// wrapped response writer to fetch the size and status.
		customResponseWriter := &responseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}

		h(customResponseWriter, r.WithContext(ctx.WithValue(r.Context(), requestIDKey{}, id)))

		req := context.New(w, r).Request
		msg := fmt.Sprintf("%s %s %s %s %d %s", req.IP(), req.Method(), req.URL(), r.Proto, customResponseWriter.status, humanize.Bytes(uint64(customResponseWriter.size)))
		switch {
		case customResponseWriter.status < 400:
			log.Info(msg)
		case customResponseWriter.status < 500:
			log.Warning(msg)
		default:
			log.Error(msg)
		}
	}
}

// responseWriter is a custom response writer to read the size and HTTP code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

// WriteHeader is adding the HTTP status of the response to the responseWriter struct.
func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

// Write is adding the size of the response to the responseWriter struct.
func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}
