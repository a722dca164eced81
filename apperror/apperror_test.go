// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/stretchr/testify/assert"
)

// TestError tests the status and code mapping and the envelope body.
func TestError(t *testing.T) {
	asserts := assert.New(t)

	tests := []struct {
		err    *apperror.Error
		status int
		code   string
	}{
		{apperror.Validation("bad"), http.StatusBadRequest, apperror.CodeValidation},
		{apperror.NotFound("table", "widgets"), http.StatusNotFound, apperror.CodeNotFound},
		{apperror.Duplicate("table", "widgets"), http.StatusConflict, apperror.CodeDuplicate},
		{apperror.Policy("no"), http.StatusBadRequest, apperror.CodePolicy},
		{apperror.Internal(errors.New("disk")), http.StatusInternalServerError, apperror.CodeInternal},
	}

	for _, test := range tests {
		asserts.Equal(test.status, test.err.Status())
		asserts.Equal(test.code, test.err.Code())
		asserts.Equal(test.code, test.err.Body()["code"])
	}

	asserts.Equal("table widgets not found", apperror.NotFound("table", "widgets").Message)
	asserts.Equal(`table "widgets" already exists`, apperror.Duplicate("table", "widgets").Message)

	// details are only rendered if set.
	asserts.NotContains(apperror.Validation("bad").Body(), "details")
	body := apperror.Validation("bad", apperror.Detail{Field: "qty", Message: "must be a number"}).Body()
	asserts.Equal([]apperror.Detail{{Field: "qty", Message: "must be a number"}}, body["details"])
}

// TestFrom tests:
// - wrapped app errors are found
// - unknown errors become internal errors which hide the cause
func TestFrom(t *testing.T) {
	asserts := assert.New(t)

	wrapped := fmt.Errorf("catalog: %w", apperror.NotFound("column", 7))
	asserts.Equal(apperror.KindNotFound, apperror.From(wrapped).Kind)
	asserts.True(apperror.Is(wrapped, apperror.KindNotFound))
	asserts.False(apperror.Is(wrapped, apperror.KindDuplicate))

	cause := errors.New("no such table: _tables")
	e := apperror.From(cause)
	asserts.Equal(apperror.KindInternal, e.Kind)
	asserts.True(errors.Is(e, cause))
	asserts.NotContains(e.Body()["message"], "_tables")
	asserts.Contains(e.Error(), "_tables")
}
