// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package endpoint exposes the catalog surface and the generated data surface of every declared table.
//
// The data surface is mounted once as generic routes. Every request resolves the table name against the
// Registry, a live map of name to descriptor which is refreshed by the catalog after every committed mutation.
// A deleted table is therefore unreachable as soon as its deletion is committed.
package endpoint

import (
	"errors"
	"sort"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/cache"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/validation"
)

// cachePrefix of the descriptors.
const cachePrefix = "table"

// Error messages.
var (
	ErrCache = errors.New("endpoint: cache manager is nil")
)

// Registry of the live descriptors.
// It implements the catalog.Observer interface.
type Registry struct {
	cache  cache.Manager
	logger logger.Manager
}

// NewRegistry creates a registry on top of the cache manager.
func NewRegistry(c cache.Manager, l logger.Manager) (*Registry, error) {
	if c == nil {
		return nil, ErrCache
	}
	if l == nil {
		l = logger.New(discard{})
	}
	return &Registry{cache: c, logger: l}, nil
}

// Descriptor builds the descriptor of the table declaration.
func Descriptor(t catalog.Table) *validation.Descriptor {
	fields := make([]validation.Field, 0, len(t.Columns))
	for _, c := range t.Columns {
		fields = append(fields, validation.Field{Name: c.Name, Type: c.DataType, Required: c.IsRequired, MaxLength: int(c.MaxLength.Int64)})
	}
	return validation.New(t.Name, fields)
}

// Register the table. An existing registration is replaced.
func (r *Registry) Register(t catalog.Table) error {
	return r.cache.Set(cachePrefix, t.Name, Descriptor(t), cache.NoExpiration)
}

// Unregister the table. It is a no-op if the table is not registered.
func (r *Registry) Unregister(name string) {
	if r.cache.Exist(cachePrefix, name) {
		_ = r.cache.Delete(cachePrefix, name)
	}
}

// Descriptor returns the live descriptor of the table.
// A NotFound error returns if the table is not registered.
func (r *Registry) Descriptor(name string) (*validation.Descriptor, error) {
	item, err := r.cache.Get(cachePrefix, name)
	if err != nil {
		return nil, apperror.NotFound("table", name)
	}
	return item.Value().(*validation.Descriptor), nil
}

// Tables returns the names of all registered tables, sorted.
func (r *Registry) Tables() []string {
	items, err := r.cache.Prefix(cachePrefix)
	if err != nil {
		return []string{}
	}
	rv := make([]string, 0, len(items))
	for _, i := range items {
		rv = append(rv, i.Value().(*validation.Descriptor).Table())
	}
	sort.Strings(rv)
	return rv
}

// Load registers all declared tables. Existing registrations are removed before.
func (r *Registry) Load(s *catalog.Store) error {
	tables, err := s.Tables()
	if err != nil {
		return err
	}
	for _, name := range r.Tables() {
		r.Unregister(name)
	}
	for _, t := range tables {
		if err = r.Register(t); err != nil {
			return err
		}
	}
	r.logger.WithFields(logger.Fields{"tables": len(tables)}).Info("endpoint: tables registered")
	return nil
}

// Refresh implements the catalog.Observer interface.
func (r *Registry) Refresh(t catalog.Table) {
	if err := r.Register(t); err != nil {
		r.logger.WithFields(logger.Fields{"table": t.Name, "error": err.Error()}).Error("endpoint: register failed")
		return
	}
	r.logger.WithFields(logger.Fields{"table": t.Name, "columns": len(t.Columns)}).Debug("endpoint: table registered")
}

// Remove implements the catalog.Observer interface.
func (r *Registry) Remove(name string) {
	r.Unregister(name)
	r.logger.WithFields(logger.Fields{"table": name}).Debug("endpoint: table unregistered")
}

// discard provider is used if no logger is set.
type discard struct{}

func (discard) Log(logger.Entry) {}
