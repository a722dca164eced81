// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package context

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"strings"
)

// Error messages.
var (
	ErrParam     = "context: the param %#v does not exist"
	ErrBody      = "context: body exceeds %d bytes"
	ErrEmptyBody = errors.New("context: body is empty")
	ErrJSON      = errors.New("context: body must contain a single json value")
)

// MaxBodySize of a request body in bytes.
var MaxBodySize int64 = 1 << 20

// Request struct.
type Request struct {
	r *http.Request

	body    []byte
	bodyErr error
	params  map[string][]string
}

// Body reads the raw body data.
// It is read only once, an error is returned if the body exceeds the MaxBodySize.
func (r *Request) Body() ([]byte, error) {
	if r.body == nil && r.bodyErr == nil {
		if r.r.Body == nil {
			r.body = []byte{}
			return r.body, nil
		}
		b, err := ioutil.ReadAll(io.LimitReader(r.r.Body, MaxBodySize+1))
		switch {
		case err != nil:
			r.bodyErr = fmt.Errorf("context: %w", err)
		case int64(len(b)) > MaxBodySize:
			r.bodyErr = fmt.Errorf(ErrBody, MaxBodySize)
		default:
			r.body = b
		}
	}
	return r.body, r.bodyErr
}

// JSON decodes the body into v.
// Numbers are decoded as json.Number, so integers keep their precision.
func (r *Request) JSON(v interface{}) error {
	b, err := r.Body()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err = dec.Decode(v); err != nil {
		return fmt.Errorf("context: %w", err)
	}
	if dec.More() {
		return ErrJSON
	}
	return nil
}

// Pattern returns the router url pattern.
// The pattern will be checked by the request context with the key "router_pattern".
// If the pattern is not set, an empty string will return.
//		Example: http://example.com/user/1
// 		/user/:id
func (r *Request) Pattern() string {
	if p, ok := r.HTTPRequest().Context().Value("router_pattern").(string); ok { // used string instead of router.PATTERN because of dependency cycle.
		return p
	}
	return ""
}

// HTTPRequest returns the original *http.Request.
func (r *Request) HTTPRequest() *http.Request {
	return r.r
}

// Method returns the HTTP method in uppercase.
func (r *Request) Method() string {
	return strings.ToUpper(r.HTTPRequest().Method)
}

// Param returns a parameter by key.
// Router params have priority over query params.
// It returns a []string because a query param can be an array.
// Error will return if the key does not exist.
func (r *Request) Param(k string) ([]string, error) {
	r.parse()
	if val, ok := r.params[k]; ok {
		return val, nil
	}
	return nil, fmt.Errorf(ErrParam, k)
}

// Params returns all existing parameters.
func (r *Request) Params() map[string][]string {
	r.parse()
	return r.params
}

// IP of the request.
func (r *Request) IP() string {
	ips := r.Proxy()
	if len(ips) > 0 && ips[0] != "" {
		rip, _, err := net.SplitHostPort(strings.TrimSpace(ips[0]))
		if err != nil {
			rip = strings.TrimSpace(ips[0])
		}
		return rip
	}
	if ip, _, err := net.SplitHostPort(r.HTTPRequest().RemoteAddr); err == nil {
		return ip
	}
	return r.HTTPRequest().RemoteAddr
}

// Proxy return all IPs which are in the X-Forwarded-For header.
func (r *Request) Proxy() []string {
	if ips := r.HTTPRequest().Header.Get("X-Forwarded-For"); ips != "" {
		return strings.Split(ips, ",")
	}
	return []string{}
}

// Scheme (http/https) checks the `X-Forwarded-Proto` header.
// If that one is empty the request TLS will be checked.
func (r *Request) Scheme() string {
	if scheme := r.HTTPRequest().Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	if r.HTTPRequest().TLS == nil {
		return "http"
	}
	return "https"
}

// URL returns request url path without the query string and fragment.
//		Example: https://example.com:8080/user?id=12#test
//		/user
func (r *Request) URL() string {
	return r.HTTPRequest().URL.Path
}

// newRequest creates the request.
func newRequest(r *http.Request) *Request {
	return &Request{r: r}
}

// parse the query params and the router params.
// It runs only once.
func (r *Request) parse() {
	if r.params != nil {
		return
	}
	r.params = make(map[string][]string)

	for param, val := range r.HTTPRequest().URL.Query() {
		r.params[param] = val
	}
	if params, ok := r.HTTPRequest().Context().Value("router_params").(map[string][]string); ok { // used string instead of router.PARAMS because of dependency cycle.
		for param, val := range params {
			r.params[param] = val
		}
	}
}
