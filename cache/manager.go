// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

const prefixSeparator = "_"

// Error messages.
var (
	ErrNotExist = "cache: item or prefix %s does not exist"
)

// Manager for cache operations.
type Manager interface {
	Get(prefix string, name string) (Item, error)
	Prefix(prefix string) ([]Item, error)
	Set(prefix string, name string, value interface{}, exp time.Duration) error
	Exist(prefix string, name string) bool
	Delete(prefix string, name string) error
	DeletePrefix(prefix string) error
	DeleteAll() error

	Close()
}

// manager will hold the default expiration and the prefixes.
type manager struct {
	defaultExpiration time.Duration

	mutex    sync.RWMutex
	provider Interface
	prefixes map[string]map[string]struct{}

	once sync.Once
	done chan struct{}
}

// newManager returns a manager with initialized data.
func newManager(provider Interface) *manager {
	return &manager{
		defaultExpiration: 1 * time.Hour,
		provider:          provider,
		prefixes:          make(map[string]map[string]struct{}),
		done:              make(chan struct{}),
	}
}

// Get returns an Item by its prefix and name.
// Error will return if it does not exist.
func (m *manager) Get(prefix string, name string) (Item, error) {
	i, err := m.provider.Get(prefixedName(prefix, name))
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return i, nil
}

// Prefix returns all items with that prefix, ordered by name.
// Error will return if the prefix does not exist.
func (m *manager) Prefix(prefix string) ([]Item, error) {
	m.mutex.RLock()
	entries, ok := m.prefixes[prefix]
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	m.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf(ErrNotExist, prefix)
	}
	sort.Strings(names)

	items := make([]Item, 0, len(names))
	for _, name := range names {
		// items can expire in the meantime.
		if i, err := m.Get(prefix, name); err == nil {
			items = append(items, i)
		}
	}
	return items, nil
}

// Set an item by its prefix, name, value and lifetime.
// If a value should not get deleted by the garbage collector, cache.NoExpiration can be used as time.Duration.
// If the default expiration should be used, use cache.DefaultExpiration.
func (m *manager) Set(prefix string, name string, value interface{}, exp time.Duration) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if exp == DefaultExpiration {
		exp = m.defaultExpiration
	}
	if err := m.provider.Set(prefixedName(prefix, name), value, exp); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	if _, ok := m.prefixes[prefix]; !ok {
		m.prefixes[prefix] = make(map[string]struct{})
	}
	m.prefixes[prefix][name] = struct{}{}
	return nil
}

// Exist wraps the Get() function but returns a boolean instead of an error.
func (m *manager) Exist(prefix string, name string) bool {
	_, err := m.Get(prefix, name)
	return err == nil
}

// Delete a value by its prefix and name.
// Error will return if it does not exist.
func (m *manager) Delete(prefix string, name string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.delete(prefix, name)
}

// DeletePrefix deletes all items of the prefix.
// Error will return if the prefix does not exist.
func (m *manager) DeletePrefix(prefix string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	entries, ok := m.prefixes[prefix]
	if !ok {
		return fmt.Errorf(ErrNotExist, prefix)
	}
	for name := range entries {
		if err := m.delete(prefix, name); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll items.
func (m *manager) DeleteAll() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.provider.DeleteAll(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	m.prefixes = make(map[string]map[string]struct{})
	return nil
}

// Close stops the garbage collector of the provider.
func (m *manager) Close() {
	m.once.Do(func() { close(m.done) })
}

// delete must be called under the lock.
func (m *manager) delete(prefix string, name string) error {
	if err := m.provider.Delete(prefixedName(prefix, name)); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if entries, ok := m.prefixes[prefix]; ok {
		delete(entries, name)
		if len(entries) == 0 {
			delete(m.prefixes, prefix)
		}
	}
	return nil
}

// prefixedName returns the name with a prefix and separator.
func prefixedName(prefix string, name string) string {
	if prefix == "" {
		return name
	}
	return strings.Join([]string{prefix, name}, prefixSeparator)
}
