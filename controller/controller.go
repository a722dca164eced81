// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package controller provides a controller / action based http.Handler for the router.
// Every request is served by a copy of the registered controller, so the dependencies of the controller are shared
// but the request state is not.
// Data and errors can be set directly in the controller. Errors are rendered as the apperror envelope.
package controller

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/controller/context"
	"github.com/patrickascher/dynapi/logger"
)

// Error messages
var (
	ErrAction = "controller: action %v does not exist in %v"
)

// predefined render types
const (
	RenderJSON = context.JSON
)

// StatusClientClosed is written if the client canceled the request.
const StatusClientClosed = 499

// Interface of the controller.
type Interface interface {
	Initialize(caller Interface) // needed to set the caller reference.
	ServeHTTP(http.ResponseWriter, *http.Request)

	// Context
	Context() *context.Context
	SetContext(ctx *context.Context)

	// render type
	RenderType() string
	SetRenderType(string)

	// logger
	Logger() logger.Manager
	SetLogger(logger.Manager)

	// controller helpers
	Name() string
	Action() string
	Set(key string, value interface{})
	SetStatus(code int)
	Error(err error)

	// helpers
	CheckBrowserCancellation() bool
	CallAction(action string) (func(), error)
	HasError() bool // returns true if Error(err) was called.
}

// Base struct
type Base struct {
	ctx    *context.Context
	caller Interface
	logger logger.Manager

	renderType string
	actionName string

	err bool
}

// Initialize the controller.
// Its required to set the correct reference. The request state is reset.
func (c *Base) Initialize(caller Interface) {
	c.caller = caller
	c.ctx = nil
	c.actionName = ""
	c.err = false
}

// Context returns the controller context.
func (c *Base) Context() *context.Context {
	return c.ctx
}

// SetContext to the controller.
func (c *Base) SetContext(ctx *context.Context) {
	c.ctx = ctx
}

// Logger of the controller.
func (c *Base) Logger() logger.Manager {
	return c.logger
}

// SetLogger of the controller.
func (c *Base) SetLogger(l logger.Manager) {
	c.logger = l
}

// Set a controller variable by key and value.
func (c *Base) Set(key string, value interface{}) {
	c.Context().Response.SetValue(key, value)
}

// SetStatus of the response.
func (c *Base) SetStatus(code int) {
	c.Context().Response.SetStatus(code)
}

// RenderType of the controller.
// Default json.
func (c *Base) RenderType() string {
	return c.renderType
}

// SetRenderType of the controller.
func (c *Base) SetRenderType(s string) {
	c.renderType = s
}

// Name returns the controller incl. package name.
func (c *Base) Name() string {
	if c.caller == nil {
		return ""
	}
	return reflect.Indirect(reflect.ValueOf(c.caller)).Type().String()
}

// Action name.
func (c *Base) Action() string {
	return c.actionName
}

// Error renders the error envelope.
// The status is defined by the error kind. Internal errors are logged with their cause, the client only gets a
// generic message. As fallback a normal http.Error will be triggered.
func (c *Base) Error(err error) {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal && c.logger != nil {
		c.logger.WithFields(logger.Fields{"controller": c.Name(), "action": c.actionName, "error": err.Error()}).Error("controller: internal error")
	}

	// call renderer error function.
	rErr := c.Context().Response.Error(appErr.Status(), appErr, c.renderType)
	// fallback if the renderer is not able to set the error message.
	if rErr != nil {
		http.Error(c.Context().Response.Writer(), rErr.Error(), appErr.Status())
	}
	// no further calls after error.
	c.err = true
}

// ServeHTTP handler.
func (c *Base) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// create new instance per request
	reqController := newController(c)
	reqController.SetContext(context.New(w, r))

	actionName, _ := r.Context().Value("router_action").(string) // used string instead of router.ACTION because of dependency cycle.
	action, err := reqController.CallAction(actionName)
	if err == nil {
		action()
	} else {
		reqController.Error(err)
	}

	// checks if client is still here
	if reqController.CheckBrowserCancellation() {
		return
	}

	// render the controller data
	if !reqController.HasError() {
		err = reqController.Context().Response.Render(reqController.RenderType())
		if err != nil {
			reqController.Error(err)
		}
	}
}

// HasError will be true if the function Error was called.
// If set, the Render function will not be called.
func (c *Base) HasError() bool {
	return c.err
}

// newController creates a copy of the controller itself.
// Exported fields and dependencies are copied, the request state is reset.
func newController(c *Base) Interface {
	rv := reflect.New(reflect.TypeOf(c.caller).Elem())
	rv.Elem().Set(reflect.ValueOf(c.caller).Elem())
	execController := rv.Interface().(Interface)
	execController.Initialize(execController)

	// default render type
	execController.SetRenderType(RenderJSON)
	if rt := c.caller.RenderType(); rt != "" {
		execController.SetRenderType(rt)
	}
	return execController
}

// CallAction returns the controller method by name.
// Error will return if the controller method does not exist.
func (c *Base) CallAction(name string) (func(), error) {
	c.actionName = name
	methodVal := reflect.ValueOf(c.caller).MethodByName(name)
	if !methodVal.IsValid() {
		return nil, fmt.Errorf(ErrAction, name, reflect.Indirect(reflect.ValueOf(c.caller)).Type().String())
	}
	method, ok := methodVal.Interface().(func())
	if !ok {
		return nil, fmt.Errorf(ErrAction, name, reflect.Indirect(reflect.ValueOf(c.caller)).Type().String())
	}
	return method, nil
}

// CheckBrowserCancellation checking if the browser canceled the request
func (c *Base) CheckBrowserCancellation() bool {
	select {
	case <-c.Context().Request.HTTPRequest().Context().Done():
		c.Context().Response.Writer().WriteHeader(StatusClientClosed)
		return true
	default:
	}
	return false
}
