// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package router

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"runtime"
	"strings"

	"github.com/patrickascher/dynapi/controller"
)

// Error messages.
var (
	ErrHandler       = errors.New("route: handler must be of type http.Handler or http.HandlerFunc")
	ErrMapper        = errors.New("route: a mapper with zero value is not allowed")
	ErrMethodUnique  = "route: HTTP method %s is not unique on pattern %s"
	ErrActionMissing = "route: a action name is mandatory on a controller (pattern: %s)"
)

// Route interface.
type Route interface {
	// Pattern of the route.
	Pattern() string
	// Handler of the route.
	Handler() http.Handler
	// Mapping of the route.
	Mapping() []Mapping
	// Error message.
	Error() error
}

// Mapping interface.
type Mapping interface {
	// Action for the mapping.
	Action() string
	// Methods for the mapping.
	Methods() []string
	SetMethods([]string)
	// Middleware(s) of the mapping
	Middleware() *middleware
}

// route struct.
type route struct {
	pattern string
	handler http.Handler
	mapping []Mapping
	err     error
}

// Pattern return the route pattern as string.
func (r route) Pattern() string {
	return r.pattern
}

// Handler returns the Handler of the route.
// A http.HandlerFunc is returned as http.Handler.
func (r route) Handler() http.Handler {
	return r.handler
}

// Mapping of the route.
func (r route) Mapping() []Mapping {
	return r.mapping
}

// Error of the route.
// Error will be set if the handler is nil, has the wrong type or the mapping is invalid.
func (r route) Error() error {
	return r.err
}

// mapping struct.
type mapping struct {
	action     string
	method     []string
	middleware *middleware
}

// Action of the mapping.
func (m mapping) Action() string {
	return m.action
}

// Methods of the mapping.
func (m mapping) Methods() []string {
	return m.method
}

// SetMethods of the mapping.
func (m *mapping) SetMethods(method []string) {
	m.method = method
}

// Middleware(s) of the mapping.
func (m mapping) Middleware() *middleware {
	return m.middleware
}

// NewRoute creates a route with the required data.
// handler must be of type http.Handler or func(http.ResponseWriter, *http.Request).
// If the handler is a controller, every mapping needs an action and the controller gets initialized.
func NewRoute(pattern string, handler interface{}, mapping ...Mapping) Route {
	r := route{pattern: pattern, mapping: mapping}

	switch h := handler.(type) {
	case controller.Interface:
		h.Initialize(h)
		r.handler = h
		if len(mapping) == 0 {
			r.err = fmt.Errorf(ErrActionMissing, pattern)
		}
		for _, m := range mapping {
			if m != nil && m.Action() == "" {
				r.err = fmt.Errorf(ErrActionMissing, pattern)
			}
		}
	case http.Handler:
		r.handler = h
	case func(http.ResponseWriter, *http.Request):
		r.handler = http.HandlerFunc(h)
	default:
		r.err = ErrHandler
	}

	// check if the HTTP method is unique over the whole pattern.
	uniqueMethod := make(map[string]bool)
	for _, m := range mapping {
		if m == nil {
			r.err = ErrMapper
			break
		}
		for _, h := range m.Methods() {
			if uniqueMethod[h] {
				r.err = fmt.Errorf(ErrMethodUnique, h, r.pattern)
				break
			}
			uniqueMethod[h] = true
		}
	}

	return &r
}

// NewMapping creates a new mapping with the required data.
// All by the router manager allowed HTTP methods can be uses.
// A HTTP Method must be unique on one pattern.
// Action can be a string or a method value of the controller.
// Middlewares are copied.
func NewMapping(methods []string, action interface{}, mw *middleware) Mapping {
	m := mapping{method: methods}

	if action != nil {
		switch reflect.TypeOf(action).Kind() {
		case reflect.Func:
			// method values are named pkg.(*T).Action-fm
			name := runtime.FuncForPC(reflect.ValueOf(action).Pointer()).Name()
			name = name[strings.LastIndex(name, ".")+1:]
			m.action = strings.TrimSuffix(name, "-fm")
		case reflect.String:
			m.action = action.(string)
		}
	}

	if mw != nil {
		m.middleware = NewMiddleware(mw.All()...)
	}

	return &m
}
