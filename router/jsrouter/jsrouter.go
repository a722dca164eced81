// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package jsrouter implements the router.Provider interface and wraps the julienschmidt.httprouter.
//
// All router params are getting set to the request context with the key router.PARAMS.
// The matched url pattern is set to the request context with the key router.PATTERN.
// If a route action was defined, it gets set as router.ACTION.
// A request with a known pattern but an unknown method is handled by the not found handler.
package jsrouter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/patrickascher/dynapi/router"
)

// init registers the js-router provider
func init() {
	err := router.Register(router.JSROUTER, New)
	if err != nil {
		panic(err)
	}
}

// Options of the provider.
type Options struct {
	RedirectTrailingSlash bool
	RedirectFixedPath     bool
}

// httpRouterExtended was created to override the httprouter.HandlerFunc, to add params to the request.ctx.
type httpRouterExtended struct {
	httprouter.Router
	manager router.Manager
}

// New configured instance.
// Options can be nil or of the type Options.
func New(manager router.Manager, options interface{}) (router.Provider, error) {
	r := &httpRouterExtended{manager: manager}

	// default not found handler
	r.NotFound = http.NotFoundHandler()
	r.Router.SaveMatchedRoutePath = true
	r.Router.HandleMethodNotAllowed = false
	r.Router.HandleOPTIONS = false

	switch opt := options.(type) {
	case nil:
		r.Router.RedirectTrailingSlash = true
		r.Router.RedirectFixedPath = true
	case Options:
		r.Router.RedirectTrailingSlash = opt.RedirectTrailingSlash
		r.Router.RedirectFixedPath = opt.RedirectFixedPath
	default:
		return nil, fmt.Errorf("jsrouter: options must be of type jsrouter.Options, %T given", options)
	}

	return r, nil
}

// Handler adds the pattern, params and action to the request context.
func (h *httpRouterExtended) Handler(method, path string, handler http.Handler) {
	h.Handle(method, path,
		func(w http.ResponseWriter, req *http.Request, p httprouter.Params) {
			ctx := req.Context()
			ctx = context.WithValue(ctx, router.PATTERN, p.MatchedRoutePath())
			ctx = context.WithValue(ctx, router.PARAMS, paramsToMap(p))
			if h.manager != nil {
				ctx = context.WithValue(ctx, router.ACTION, h.manager.ActionByPatternMethod(p.MatchedRoutePath(), req.Method))
			}
			handler.ServeHTTP(w, req.WithContext(ctx))
		})
}

// HTTPHandler returns the http.Handler.
func (h *httpRouterExtended) HTTPHandler() http.Handler {
	return h
}

// AddRoute to the provider
func (h *httpRouterExtended) AddRoute(r router.Route) error {
	for _, mapping := range r.Mapping() {
		for _, method := range mapping.Methods() {
			var handler http.HandlerFunc = r.Handler().ServeHTTP
			if mapping.Middleware() != nil {
				handler = mapping.Middleware().Handle(handler)
			}
			h.Handler(method, r.Pattern(), handler)
		}
	}
	return nil
}

// SetNotFound is a function to add a custom not found handler if a route does not match.
func (h *httpRouterExtended) SetNotFound(handler http.Handler) {
	h.NotFound = handler
}

// paramsToMap converts the router params.
func paramsToMap(params httprouter.Params) map[string][]string {
	rv := make(map[string][]string, len(params))
	for _, p := range params {
		if p.Key == httprouter.MatchedRoutePathParam {
			continue
		}
		rv[p.Key] = []string{p.Value}
	}
	return rv
}
