// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memory implements the cache.Interface and registers a memory provider.
// All operations are using a sync.RWMutex for synchronization.
package memory

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/imdario/mergo"
	"github.com/patrickascher/dynapi/cache"
)

// init registers the memory provider.
func init() {
	err := cache.Register(cache.MEMORY, New)
	if err != nil {
		log.Fatal(err)
	}
}

// defaults
const (
	defaultGCInterval = 5 * time.Minute
)

// Error messages
var (
	ErrNameNotExist = "memory: name %v does not exist"
	ErrOptions      = "memory: options must be of type memory.Options, %T given"
)

// Options for the memory provider
type Options struct {
	// GCInterval defines how often the GC will run (default: every 5 minutes).
	GCInterval time.Duration
}

// New creates a memory cache by the given options.
// Zero option values are replaced by the defaults.
func New(opt interface{}) (cache.Interface, error) {
	options := Options{}
	if opt != nil {
		o, ok := opt.(Options)
		if !ok {
			return nil, fmt.Errorf(ErrOptions, opt)
		}
		options = o
	}
	if err := mergo.Merge(&options, Options{GCInterval: defaultGCInterval}); err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	return &memory{options: options, items: make(map[string]item)}, nil
}

// memory cache provider.
type memory struct {
	mutex   sync.RWMutex
	options Options
	items   map[string]item
}

// Get returns the value of the given name.
// Error will return if the name does not exist or the item is expired.
func (m *memory) Get(name string) (cache.Item, error) {
	m.mutex.RLock()
	item, ok := m.items[name]
	m.mutex.RUnlock() // not deferred because its taking extra ns.

	if !ok || item.expired() {
		return nil, fmt.Errorf(ErrNameNotExist, name)
	}

	return &item, nil
}

// All returns all items of the cache as []Item.
func (m *memory) All() ([]cache.Item, error) {
	m.mutex.RLock()
	var items []cache.Item
	for i := range m.items {
		item := m.items[i]
		if !item.expired() {
			items = append(items, &item)
		}
	}
	m.mutex.RUnlock() // not deferred because its taking extra ns.

	return items, nil
}

// Set key/value pair.
// The expiration can be set by time.duration or forever with cache.NoExpiration.
func (m *memory) Set(name string, value interface{}, exp time.Duration) error {
	m.mutex.Lock()
	m.items[name] = item{name: name, val: value, created: time.Now(), exp: exp}
	m.mutex.Unlock() // not deferred because its taking extra ns.

	return nil
}

// Delete removes a given name from the cache.
// Error will return if the name does not exist.
func (m *memory) Delete(name string) error {
	var err error
	m.mutex.Lock()
	if _, ok := m.items[name]; ok {
		delete(m.items, name)
	} else {
		err = fmt.Errorf(ErrNameNotExist, name)
	}
	m.mutex.Unlock() // not deferred because its taking extra ns.

	return err
}

// DeleteAll removes all items from the cache.
func (m *memory) DeleteAll() error {
	m.mutex.Lock()
	m.items = make(map[string]item)
	m.mutex.Unlock() // not deferred because its taking extra ns.

	return nil
}

// GC deletes the expired items on every interval until done is closed.
func (m *memory) GC(done <-chan struct{}) {
	ticker := time.NewTicker(m.options.GCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.mutex.Lock()
			for key, itm := range m.items {
				if itm.expired() {
					delete(m.items, key)
				}
			}
			m.mutex.Unlock()
		}
	}
}
