// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"fmt"
	"os"

	"github.com/patrickascher/dynapi/cache"
	"github.com/patrickascher/dynapi/cache/memory"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/endpoint"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/logger/logrus"
	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/query"
	_ "github.com/patrickascher/dynapi/query/mysql"  // mysql provider
	_ "github.com/patrickascher/dynapi/query/sqlite" // sqlite provider
	"github.com/patrickascher/dynapi/scheduler"
	"github.com/patrickascher/dynapi/schema"
)

// Error messages.
var (
	ErrMandatory = "server: config %#v is mandatory"
)

// initHooks will initialize all pre-defined server hooks.
// The order matters, every hook depends on the previous ones.
func (s *server) initHooks() error {
	for _, hook := range []func() error{s.logHook, s.dbHook, s.cacheHook, s.catalogHook, s.routerHook, s.schedulerHook} {
		if err := hook(); err != nil {
			s.close()
			return err
		}
	}
	return nil
}

// logHook creates the logrus logger.
// A logger which was set by the caller is kept.
func (s *server) logHook() error {
	lvl, err := logger.ParseLevel(s.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if s.logger == nil {
		s.logger = logger.New(logrus.New(os.Stdout, s.cfg.Log.Format))
	}
	s.logger.SetLogLevel(lvl)
	s.logger.SetCallerFields(s.cfg.Log.Caller)
	return nil
}

// dbHook opens the database and creates the persistence engine.
// Error will return if the provider was not defined.
func (s *server) dbHook() error {
	if s.cfg.Database.Provider == "" {
		return fmt.Errorf(ErrMandatory, "database:provider")
	}
	b, err := query.New(s.cfg.Database.Provider, s.cfg.Database)
	if err != nil {
		return err
	}
	b.SetLogger(s.logger)

	s.engine, err = persistence.New(b, s.logger)
	if err != nil {
		_ = b.Close()
		return err
	}
	return nil
}

// cacheHook creates the memory cache of the endpoint registry.
func (s *server) cacheHook() error {
	gc, err := parseDuration("cache:gcInterval", s.cfg.Cache.GCInterval)
	if err != nil {
		return err
	}
	s.cache, err = cache.New(cache.MEMORY, memory.Options{GCInterval: gc})
	return err
}

// catalogHook migrates the catalog, reports divergences and registers all declared tables.
func (s *server) catalogHook() error {
	var err error
	s.store, err = catalog.New(s.engine, schema.New(s.logger), s.logger)
	if err != nil {
		return err
	}
	if err = s.store.Migrate(); err != nil {
		return err
	}
	if _, err = s.store.Verify(); err != nil {
		return err
	}

	s.registry, err = endpoint.NewRegistry(s.cache, s.logger)
	if err != nil {
		return err
	}
	s.store.SetObserver(s.registry)
	return s.registry.Load(s.store)
}

// schedulerHook adds the periodic flush of the persistence engine.
func (s *server) schedulerHook() error {
	interval, err := parseDuration("persistence:flushInterval", s.cfg.Persistence.FlushInterval)
	if err != nil {
		return err
	}
	s.scheduler, err = scheduler.New(scheduler.GoCron, nil)
	if err != nil {
		return err
	}
	return s.scheduler.Every(interval).Name("flush").Singleton().Do(func() {
		if err := s.engine.Flush(); err != nil {
			s.logger.WithFields(logger.Fields{"error": err.Error()}).Warning("server: flush failed")
		}
	})
}
