// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/controller"
	"github.com/patrickascher/dynapi/validation"
)

// Messages of the request helpers.
var (
	MsgBody   = "body must be a json object"
	MsgLimit  = fmt.Sprintf("must be an integer between 1 and %d", MaxLimit)
	MsgOffset = "must be an integer greater than or equal to 0"
)

// param returns the first value of the router or query param, an empty string if it does not exist.
func param(c controller.Interface, key string) string {
	p, err := c.Context().Request.Param(key)
	if err != nil || len(p) == 0 {
		return ""
	}
	return p[0]
}

// paramID parses the param as positive id.
// Invalid ids can never exist, so they are reported as not found.
func paramID(c controller.Interface, key string, resource string) (int64, error) {
	raw := param(c, key)
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || i <= 0 {
		return 0, apperror.NotFound(resource, raw)
	}
	return i, nil
}

// bounded parses an integer query param in the range [min,max].
// If the param is not set, the default value is returned.
func bounded(c controller.Interface, key string, def int, min int, max int, msg string) (int, error) {
	raw := param(c, key)
	if raw == "" {
		return def, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < min || i > max {
		return 0, apperror.Validation(validation.MsgFailed, apperror.Detail{Field: key, Message: msg})
	}
	return i, nil
}

// body decodes the request body as json object.
func body(c controller.Interface) (map[string]interface{}, error) {
	var b map[string]interface{}
	if err := c.Context().Request.JSON(&b); err != nil || b == nil {
		return nil, apperror.Validation(MsgBody)
	}
	return b, nil
}

// keys of the body, sorted.
func keys(b map[string]interface{}) []string {
	rv := make([]string, 0, len(b))
	for k := range b {
		rv = append(rv, k)
	}
	sort.Strings(rv)
	return rv
}

// decode the body into the catalog input struct.
// Unknown fields and wrong types are reported as validation error.
func decode(b map[string]interface{}, v interface{}) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: v, Metadata: &md})
	if err != nil {
		return apperror.Internal(err)
	}

	if err = dec.Decode(b); err != nil {
		var details []apperror.Detail
		var mErr *mapstructure.Error
		if errors.As(err, &mErr) {
			for _, e := range mErr.Errors {
				details = append(details, apperror.Detail{Message: e})
			}
		}
		return apperror.Validation(validation.MsgFailed, details...)
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		details := make([]apperror.Detail, 0, len(md.Unused))
		for _, f := range md.Unused {
			details = append(details, apperror.Detail{Field: f, Message: validation.MsgUnknown})
		}
		return apperror.Validation(validation.MsgFailed, details...)
	}
	return nil
}

// require returns a validation error for every missing key.
func require(b map[string]interface{}, fields ...string) error {
	var details []apperror.Detail
	for _, f := range fields {
		if v, ok := b[f]; !ok || v == nil {
			details = append(details, apperror.Detail{Field: f, Message: validation.MsgRequired})
		}
	}
	if len(details) > 0 {
		return apperror.Validation(validation.MsgFailed, details...)
	}
	return nil
}
