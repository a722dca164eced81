// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package router provides a manager to add routes based on an http.Handler or http.HandlerFunc.
// Specific Action<->HTTP Method mapping can be defined.
// Middleware helpers to define middlewares with a strict order, a global chain wraps every route.
// The PATTERN, PARAMS and ACTION will be added as request context.
// The router is provider based.
package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/patrickascher/dynapi/registry"
)

// registryPrefix for the registration of the predefined providers.
const registryPrefix = "router_"

// pre-defined providers
const (
	JSROUTER = "jsrouter"
)

// Request context keys.
const (
	// PARAMS of the provider are added as context to the HTTP context.
	PARAMS = registryPrefix + "params"
	// PATTERN of the route is added as context to the HTTP context.
	PATTERN = registryPrefix + "pattern"
	// ACTION is added to the HTTP context if the Route.Action was defined.
	ACTION = registryPrefix + "action"
)

// Error messages.
var (
	ErrHTTPMethod        = "router: HTTP method %s is not allowed"
	ErrHTTPMethodPattern = ErrHTTPMethod + " on pattern %s"
	ErrPatternNotFound   = "router: pattern %s is not defined"
	ErrPattern           = errors.New("router: pattern must begin with a slash")
	ErrPatternExists     = "router: pattern %s already exists"
)

// Provider interface.
type Provider interface {
	// HTTPHandler must return the mux for http/server.
	HTTPHandler() http.Handler
	// SetNotFound sets the handler for every request which does not match a route.
	SetNotFound(http.Handler)
	// AddRoute to the router.
	// The handler of every mapping is already wrapped with the middlewares.
	AddRoute(Route) error
}

// Manager interface of the router.
type Manager interface {
	// Routes return all defined routes.
	Routes() []Route
	// RouteByPattern will return an error if the pattern does not exist.
	RouteByPattern(pattern string) (Route, error)
	// ActionByPatternMethod will return the action by the pattern and HTTP method.
	ActionByPatternMethod(pattern string, method string) string
	// AllowHTTPMethod allows to globally allow/disallow a HTTP Method.
	AllowHTTPMethod(method string, allow bool) error
	// SetMiddleware which wraps every route. It must be set before the routes are added.
	SetMiddleware(*middleware)
	// AddRoute to the router provider.
	AddRoute(Route) error
	// Handler
	Handler() http.Handler
	// SetNotFound - a custom not found Handler can be added.
	SetNotFound(handler http.Handler)
}

// providerFn alias type.
type providerFn func(Manager, interface{}) (Provider, error)

// Register the router provider. This should be called in the init() of the providers.
// If the router provider/name is empty or is already registered, an error will return.
func Register(provider string, fn providerFn) error {
	return registry.Set(registryPrefix+provider, fn)
}

// New creates the requested router provider and returns a router manager.
// Global HTTP Methods getting defined.
// If the provider is not registered an error will return.
func New(provider string, options interface{}) (Manager, error) {
	reg, err := registry.Get(registryPrefix + provider)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	m := &manager{allowedHTTPMethod: defaultHTTPMethods(), actions: map[string]map[string]string{}}
	m.provider, err = reg.(providerFn)(m, options)
	if err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	return m, nil
}

// manager struct.
type manager struct {
	routes            []Route
	actions           map[string]map[string]string
	provider          Provider
	middleware        *middleware
	allowedHTTPMethod map[string]bool
}

// Routes return all defined routes.
func (m *manager) Routes() []Route {
	return m.routes
}

// RouteByPattern will return the route by the given pattern.
// An error will return if the pattern does not exist.
func (m *manager) RouteByPattern(pattern string) (Route, error) {
	for _, route := range m.routes {
		if route.Pattern() == pattern {
			return route, nil
		}
	}
	return nil, fmt.Errorf(ErrPatternNotFound, pattern)
}

// ActionByPatternMethod will return the action by the given pattern and method.
// The actions are indexed when the route is added.
func (m *manager) ActionByPatternMethod(pattern string, method string) string {
	return m.actions[pattern][method]
}

// Handler returns the http.Handler.
func (m *manager) Handler() http.Handler {
	return m.provider.HTTPHandler()
}

// SetNotFound for a custom not found Handler.
// The global middleware is applied.
func (m *manager) SetNotFound(h http.Handler) {
	if m.middleware != nil {
		h = m.middleware.Handle(h.ServeHTTP)
	}
	m.provider.SetNotFound(h)
}

// SetMiddleware for all routes.
func (m *manager) SetMiddleware(mw *middleware) {
	m.middleware = mw
}

// AllowHTTPMethod globally for this router.
func (m *manager) AllowHTTPMethod(httpMethod string, allow bool) error {
	if err := isHTTPMethodValid(httpMethod); err != nil {
		return err
	}
	m.allowedHTTPMethod[httpMethod] = allow
	return nil
}

// AddRoute to the router.
// The global middleware is prepended to the middlewares of every mapping.
// Error will return if the pattern already exists or a HTTP method is not allowed.
func (m *manager) AddRoute(r Route) error {
	err := m.checkRouteConfig(r)
	if err != nil {
		return err
	}

	if m.middleware != nil {
		route := r.(*route)
		for k, rm := range route.mapping {
			mapping := rm.(*mapping)
			if mapping.middleware == nil {
				mapping.middleware = NewMiddleware(m.middleware.All()...)
			} else {
				mapping.middleware.Prepend(m.middleware.All()...)
			}
			route.mapping[k] = mapping
		}
	}

	err = m.provider.AddRoute(r)
	if err != nil {
		return err
	}

	m.actions[r.Pattern()] = map[string]string{}
	for _, mapping := range r.Mapping() {
		for _, method := range mapping.Methods() {
			m.actions[r.Pattern()][method] = mapping.Action()
		}
	}
	m.routes = append(m.routes, r)
	return nil
}

// checkRouteConfig is a helper to check the route configuration.
// It checks if there are any route errors, the pattern is correct and if the HTTP method is allowed by the manager.
// If the mapping is nil, a default mapping with all allowed HTTP methods will be added.
// If a defined mapping has a nil value for the methods, all allowed HTTP methods will be added.
func (m *manager) checkRouteConfig(r Route) error {
	if err := r.Error(); err != nil {
		return fmt.Errorf("router: %w", err)
	}

	if err := m.checkPattern(r.Pattern()); err != nil {
		return err
	}

	if r.Mapping() == nil {
		route := r.(*route)
		route.mapping = append(route.mapping, &mapping{method: m.allowedHTTPMethods()})
		return nil
	}

	for k, mapping := range r.Mapping() {
		if mapping.Methods() == nil {
			r.Mapping()[k].SetMethods(m.allowedHTTPMethods())
			continue
		}
		for _, method := range mapping.Methods() {
			if !m.allowedHTTPMethod[method] {
				return fmt.Errorf(ErrHTTPMethodPattern, method, r.Pattern())
			}
		}
	}

	return nil
}

// checkPattern is a helper to guarantee all pattern are unique and start with a slash.
func (m *manager) checkPattern(pattern string) error {
	if pattern == "" || pattern[0] != '/' {
		return ErrPattern
	}
	if _, err := m.RouteByPattern(pattern); err == nil {
		return fmt.Errorf(ErrPatternExists, pattern)
	}
	return nil
}

// allowedHTTPMethods returns all allowed HTTP methods as string slice.
func (m manager) allowedHTTPMethods() []string {
	var rv []string
	for httpMethod, allowed := range m.allowedHTTPMethod {
		if allowed {
			rv = append(rv, httpMethod)
		}
	}
	return rv
}

// isHTTPMethodValid will return an error if the given method is not a valid HTTP method.
func isHTTPMethodValid(method string) error {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodOptions, http.MethodDelete, http.MethodHead, http.MethodConnect, http.MethodTrace:
		return nil
	default:
		return fmt.Errorf(ErrHTTPMethod, method)
	}
}

// defaultHTTPMethods returns a map with the default HTTP methods.
// TRACE and CONNECT are disabled by default.
func defaultHTTPMethods() map[string]bool {
	return map[string]bool{
		http.MethodGet:     true,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodDelete:  true,
		http.MethodPatch:   true,
		http.MethodOptions: true,
		http.MethodHead:    true,
		http.MethodTrace:   false, //vulnerable to XST https://www.owasp.org/index.php/Cross_Site_Tracing
		http.MethodConnect: false,
	}
}
