// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/patrickascher/dynapi/cache"
	"github.com/patrickascher/dynapi/cache/memory"
	"github.com/stretchr/testify/assert"
)

// TestNew tests the option handling.
func TestNew(t *testing.T) {
	asserts := assert.New(t)

	mem, err := memory.New(nil)
	asserts.NoError(err)
	asserts.NotNil(mem)

	mem, err = memory.New("wrong")
	asserts.Nil(mem)
	asserts.Equal(fmt.Sprintf(memory.ErrOptions, "wrong"), err.Error())
}

// TestMemory tests:
// - set, reset and get of items.
// - error on unknown names.
// - all items.
// - expired items are not returned and collected by the GC.
// - delete and delete all.
func TestMemory(t *testing.T) {
	asserts := assert.New(t)

	mem, err := memory.New(memory.Options{GCInterval: time.Millisecond})
	asserts.NoError(err)
	done := make(chan struct{})
	defer close(done)
	go mem.GC(done)

	asserts.NoError(mem.Set("foo", "bar", cache.NoExpiration))
	asserts.NoError(mem.Set("foo", "BAR", cache.NoExpiration))
	asserts.NoError(mem.Set("John", "Doe", cache.NoExpiration))

	v, err := mem.Get("foo")
	asserts.NoError(err)
	asserts.Equal("foo", v.Name())
	asserts.Equal("BAR", v.Value())
	asserts.False(v.Created().IsZero())
	asserts.Equal(time.Duration(cache.NoExpiration), v.Expiration())

	v, err = mem.Get("baz")
	asserts.Nil(v)
	asserts.Equal(fmt.Sprintf(memory.ErrNameNotExist, "baz"), err.Error())

	items, err := mem.All()
	asserts.NoError(err)
	asserts.Equal(2, len(items))

	// expired
	asserts.NoError(mem.Set("short", "lived", time.Nanosecond))
	time.Sleep(50 * time.Millisecond)
	_, err = mem.Get("short")
	asserts.Error(err)
	asserts.Error(mem.Delete("short"))

	asserts.NoError(mem.Delete("foo"))
	asserts.Error(mem.Delete("foo"))

	asserts.NoError(mem.DeleteAll())
	items, err = mem.All()
	asserts.NoError(err)
	asserts.Nil(items)
}
