// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/patrickascher/dynapi/cache"
	_ "github.com/patrickascher/dynapi/cache/memory"
	"github.com/patrickascher/dynapi/registry"
	"github.com/stretchr/testify/assert"
)

// TestNew tests:
// - error: provider error handling
// - error: unknown provider
// - every call creates an own instance
func TestNew(t *testing.T) {
	asserts := assert.New(t)

	err := cache.Register("mockErr", func(o interface{}) (cache.Interface, error) { return nil, errors.New("an error") })
	asserts.NoError(err)

	mgr, err := cache.New("mockErr", nil)
	asserts.Nil(mgr)
	asserts.Equal("an error", errors.Unwrap(err).Error())

	mgr, err = cache.New("mockNotExisting", nil)
	asserts.Nil(mgr)
	asserts.Equal(fmt.Sprintf(registry.ErrUnknownEntry, "dynapi:cache:mockNotExisting"), errors.Unwrap(err).Error())

	a, err := cache.New(cache.MEMORY, nil)
	asserts.NoError(err)
	defer a.Close()
	b, err := cache.New(cache.MEMORY, nil)
	asserts.NoError(err)
	defer b.Close()

	asserts.NoError(a.Set("table", "widgets", 1, cache.NoExpiration))
	asserts.True(a.Exist("table", "widgets"))
	asserts.False(b.Exist("table", "widgets"))
}

// TestManager tests the prefix handling.
func TestManager(t *testing.T) {
	asserts := assert.New(t)

	m, err := cache.New(cache.MEMORY, nil)
	asserts.NoError(err)
	defer m.Close()

	asserts.NoError(m.Set("table", "widgets", 1, cache.NoExpiration))
	asserts.NoError(m.Set("table", "orders", 2, cache.NoExpiration))
	asserts.NoError(m.Set("table", "orders", 3, cache.DefaultExpiration))
	asserts.NoError(m.Set("other", "x", 4, cache.NoExpiration))

	i, err := m.Get("table", "orders")
	asserts.NoError(err)
	asserts.Equal(3, i.Value())
	asserts.Equal("table_orders", i.Name())

	items, err := m.Prefix("table")
	asserts.NoError(err)
	asserts.Equal(2, len(items))
	asserts.Equal(3, items[0].Value())
	asserts.Equal(1, items[1].Value())

	asserts.NoError(m.Delete("table", "orders"))
	asserts.Error(m.Delete("table", "orders"))
	asserts.False(m.Exist("table", "orders"))

	asserts.NoError(m.DeletePrefix("table"))
	_, err = m.Prefix("table")
	asserts.Equal(fmt.Sprintf(cache.ErrNotExist, "table"), err.Error())
	asserts.Error(m.DeletePrefix("table"))

	asserts.NoError(m.DeleteAll())
	asserts.False(m.Exist("other", "x"))
	m.Close()
	m.Close()
}
