// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slicer_test

import (
	"testing"

	"github.com/patrickascher/dynapi/slicer"
	"github.com/stretchr/testify/assert"
)

func TestStringExists(t *testing.T) {
	asserts := assert.New(t)
	pool := []string{"name", "data_type"}

	pos, exists := slicer.StringExists(pool, "data_type")
	asserts.True(exists)
	asserts.Equal(1, pos)

	pos, exists = slicer.StringExists(pool, "data")
	asserts.False(exists)
	asserts.Equal(0, pos)

	_, exists = slicer.StringExists(nil, "name")
	asserts.False(exists)
}
