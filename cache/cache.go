// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cache provides a cache manager for any type that implements the cache.Interface.
// Features: prefixing, provider registration and a stoppable garbage collector.
package cache

import (
	"fmt"
	"time"

	"github.com/patrickascher/dynapi/registry"
)

// Defaults
const (
	// DefaultExpiration of the cache provider.
	DefaultExpiration = 0
	// NoExpiration for the cache item.
	NoExpiration = -1
)

// registryPrefix for the providers registry name.
const registryPrefix = "dynapi:cache:"

// All predefined providers are listed here.
const (
	MEMORY = "memory"
)

type providerFn func(opt interface{}) (Interface, error)

// Interface description for cache providers.
// All methods must be safe for concurrent use.
type Interface interface {
	// Get returns an Item by its name.
	// Error must return if it does not exist.
	Get(name string) (Item, error)
	// All cached items.
	// Must return nil if the cache is empty.
	All() ([]Item, error)
	// Set an item by its name, value and lifetime.
	// If cache.NoExpiration is set, the item should not get deleted.
	Set(name string, value interface{}, exp time.Duration) error
	// Delete a value by its name.
	// Error must return if it does not exist.
	Delete(name string) error
	// DeleteAll items.
	DeleteAll() error
	// GC will be called once as goroutine and must return when done is closed.
	// If the cache backend has its own garbage collector just return in this method.
	GC(done <-chan struct{})
}

// Item interface for the cached object.
type Item interface {
	Name() string
	Value() interface{}
	Created() time.Time
	Expiration() time.Duration
}

// New returns a new manager for the cache provider with the given options.
// For the specific provider options please check out the provider details.
// If the provider is not registered an error will return.
// Every call creates an own provider instance, its garbage collector runs until the manager is closed.
func New(provider string, options interface{}) (Manager, error) {
	instanceFn, err := registry.Get(registryPrefix + provider)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	p, err := instanceFn.(providerFn)(options)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	m := newManager(p)
	go p.GC(m.done)

	return m, nil
}

// Register a new cache provider by name.
func Register(name string, provider func(opt interface{}) (Interface, error)) error {
	return registry.Set(registryPrefix+name, providerFn(provider))
}
