// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package context

import (
	"encoding/json"
	"net/http"
)

// JSON renderer name.
const JSON = "json"

// register json renderer automatically.
func init() {
	_ = RegisterRenderer(JSON, newJSONRenderer)
}

func newJSONRenderer() (Renderer, error) {
	return &jsonRenderer{}, nil
}

// bodyError is implemented by errors which provide their own envelope content.
type bodyError interface {
	Body() map[string]interface{}
}

// jsonRenderer struct
type jsonRenderer struct {
}

// Name returns the json name.
func (jr jsonRenderer) Name() string {
	return "Json"
}

// Write renders the response values as json with the response status.
// On http.StatusNoContent no body is written.
func (jr jsonRenderer) Write(r *Response) error {
	if r.Status() == http.StatusNoContent {
		r.Writer().WriteHeader(http.StatusNoContent)
		return nil
	}

	j, err := json.Marshal(r.Values())
	if err != nil {
		return err
	}
	r.Writer().Header().Set("Content-Type", "application/json; charset=utf-8")
	r.Writer().WriteHeader(r.Status())
	_, err = r.Writer().Write(j)
	return err
}

// Error renders the given error with the json key "error".
// If the error provides a body, it is used as value, otherwise the error message.
// An error will return, if the response can not be written.
func (jr jsonRenderer) Error(r *Response, code int, err error) error {
	var value interface{} = map[string]interface{}{"message": err.Error()}
	if b, ok := err.(bodyError); ok {
		value = b.Body()
	}
	r.SetValue("error", value)
	r.SetStatus(code)
	return jr.Write(r)
}
