// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package controller_test

import (
	ctx "context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/controller"
	"github.com/stretchr/testify/assert"
)

// widgets is a test controller with a shared dependency.
type widgets struct {
	controller.Base
	counter *int
	state   string
}

func (w *widgets) Get() {
	*w.counter++
	w.state = "dirty"
	w.Set("data", map[string]interface{}{"action": w.Action(), "name": w.Name()})
}

func (w *widgets) Create() {
	w.SetStatus(http.StatusCreated)
	w.Set("data", w.state)
}

func (w *widgets) Delete() {
	w.SetStatus(http.StatusNoContent)
}

func (w *widgets) Duplicate() {
	w.Error(apperror.Duplicate("table", "widgets"))
	w.Set("data", "ignored")
}

func (w *widgets) Crash() {
	w.Error(errors.New("database is locked"))
}

func serve(c controller.Interface, action string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ctx.WithValue(r.Context(), "router_action", action))
	c.ServeHTTP(w, r)
	return w
}

// TestBase_ServeHTTP tests:
// - per request copy with shared dependencies.
// - status and rendering.
// - error envelope by kind.
// - unknown action.
func TestBase_ServeHTTP(t *testing.T) {
	asserts := assert.New(t)

	counter := 0
	c := &widgets{counter: &counter}
	c.Initialize(c)

	w := serve(c, "Get")
	asserts.Equal(http.StatusOK, w.Code)
	asserts.Equal(`{"data":{"action":"Get","name":"controller_test.widgets"}}`, w.Body.String())
	asserts.Equal(1, counter)
	// request state of the copy does not leak.
	asserts.Equal("", c.state)

	w = serve(c, "Create")
	asserts.Equal(http.StatusCreated, w.Code)
	asserts.Equal(`{"data":""}`, w.Body.String())

	w = serve(c, "Delete")
	asserts.Equal(http.StatusNoContent, w.Code)
	asserts.Equal("", w.Body.String())

	w = serve(c, "Duplicate")
	asserts.Equal(http.StatusConflict, w.Code)
	asserts.Equal(`{"error":{"code":"DUPLICATE","message":"table \"widgets\" already exists"}}`, w.Body.String())

	w = serve(c, "Crash")
	asserts.Equal(http.StatusInternalServerError, w.Code)
	asserts.Equal(`{"error":{"code":"INTERNAL_ERROR","message":"an unexpected error occurred"}}`, w.Body.String())

	w = serve(c, "DoesNotExist")
	asserts.Equal(http.StatusInternalServerError, w.Code)
	asserts.Equal(`{"error":{"code":"INTERNAL_ERROR","message":"an unexpected error occurred"}}`, w.Body.String())
}

// TestBase_CallAction tests the action lookup.
func TestBase_CallAction(t *testing.T) {
	asserts := assert.New(t)

	c := &widgets{}
	c.Initialize(c)
	fn, err := c.CallAction("Delete")
	asserts.NoError(err)
	asserts.NotNil(fn)
	asserts.Equal("Delete", c.Action())

	// methods with arguments are no actions.
	_, err = c.CallAction("Initialize")
	asserts.Error(err)
	_, err = c.CallAction("Missing")
	asserts.Error(err)
}

// TestBase_CheckBrowserCancellation tests the canceled request.
func TestBase_CheckBrowserCancellation(t *testing.T) {
	asserts := assert.New(t)

	counter := 0
	c := &widgets{counter: &counter}
	c.Initialize(c)

	cancelCtx, cancel := ctx.WithCancel(ctx.Background())
	cancel()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx.WithValue(cancelCtx, "router_action", "Get"))
	c.ServeHTTP(w, r)
	asserts.Equal(controller.StatusClientClosed, w.Code)
	asserts.Equal("", w.Body.String())
}
