// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/logger"
)

// recovery type
type recovery struct {
	manager logger.Manager
}

// NewRecover creates the panic recovery middleware.
// A panic is logged with its stack and rendered as internal error envelope.
func NewRecover(manager logger.Manager) *recovery {
	return &recovery{manager: manager}
}

// MW must be passed to the middleware.
func (rec *recovery) MW(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}

			err := apperror.Internal(fmt.Errorf("%v", p))
			rec.manager.WithFields(logger.Fields{"error": err.Error(), "stack": string(debug.Stack()), "request_id": RequestID(r.Context())}).Error("middleware: panic recovered")

			b, _ := json.Marshal(map[string]interface{}{"error": err.Body()})
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(err.Status())
			_, _ = w.Write(b)
		}()
		h(w, r)
	}
}
