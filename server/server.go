// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package server is a configurable webserver with pre-defined hooks.
// The hooks open the database, migrate the catalog, register all declared tables, mount the catalog and
// data surface and schedule the periodic flush.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sync"

	"github.com/patrickascher/dynapi/cache"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/endpoint"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/router"
	"github.com/patrickascher/dynapi/scheduler"
)

var (
	mutex     sync.RWMutex
	webserver *server
)

// Error messages
var (
	ErrInit    = errors.New("server: is not loaded")
	ErrConfig  = errors.New("server: config must be or embed a server.Configuration")
	ErrRunning = errors.New("server: is already loaded")
)

// server struct.
type server struct {
	http      *http.Server
	config    interface{}
	cfg       Configuration
	logger    logger.Manager
	engine    *persistence.Engine
	cache     cache.Manager
	store     *catalog.Store
	registry  *endpoint.Registry
	router    router.Manager
	scheduler scheduler.Provider
}

// New creates the server instance with the given configuration.
// The config must be a server.Configuration or a struct which embeds one.
// Zero values are replaced by the defaults. If l is nil, a logrus logger is created.
func New(config interface{}, l logger.Manager) error {
	cfg, err := checkConfig(config)
	if err != nil {
		return err
	}
	if cfg, err = withDefaults(cfg); err != nil {
		return err
	}

	mutex.Lock()
	defer mutex.Unlock()
	if webserver != nil {
		return ErrRunning
	}

	s := &server{config: config, cfg: cfg, logger: l}
	if err = s.initHooks(); err != nil {
		return err
	}
	webserver = s
	return nil
}

// Start the scheduler and the webserver.
// It blocks until the webserver is stopped. A stopped webserver returns nil.
func Start() error {
	s, err := instance()
	if err != nil {
		return err
	}

	s.scheduler.Start()
	s.http = &http.Server{Addr: fmt.Sprint(":", s.cfg.Server.HTTPPort), Handler: s.handler()}
	s.logger.WithFields(logger.Fields{"addr": s.http.Addr, "database": s.cfg.Database.Provider}).Info("server: started")

	if err = s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop the webserver gracefully, the scheduler and closes the database.
// The instance is released, so New can be called again.
func Stop(ctx context.Context) error {
	mutex.Lock()
	s := webserver
	webserver = nil
	mutex.Unlock()
	if s == nil {
		return ErrInit
	}

	var err error
	if s.http != nil {
		timeout, tErr := parseDuration("server:shutdownTimeout", s.cfg.Server.ShutdownTimeout)
		if tErr != nil {
			return tErr
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err = s.http.Shutdown(ctx)
	}
	s.close()
	s.logger.Info("server: stopped")
	return err
}

// Handler returns the http handler incl. cors.
// Error will return if the server instance was not created yet.
func Handler() (http.Handler, error) {
	s, err := instance()
	if err != nil {
		return nil, err
	}
	return s.handler(), nil
}

// Config of the webserver.
// Error will return if the server instance was not created yet.
func Config() (interface{}, error) {
	s, err := instance()
	if err != nil {
		return nil, err
	}
	return s.config, nil
}

// Router of the webserver.
// Error will return if the server instance was not created yet.
func Router() (router.Manager, error) {
	s, err := instance()
	if err != nil {
		return nil, err
	}
	return s.router, nil
}

// Catalog of the webserver.
// Error will return if the server instance was not created yet.
func Catalog() (*catalog.Store, error) {
	s, err := instance()
	if err != nil {
		return nil, err
	}
	return s.store, nil
}

// instance returns the loaded webserver.
func instance() (*server, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	if webserver == nil {
		return nil, ErrInit
	}
	return webserver, nil
}

// close releases all resources of the hooks which were created.
func (s *server) close() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			s.logger.WithFields(logger.Fields{"error": err.Error()}).Error("server: close database")
		}
	}
	if s.cache != nil {
		s.cache.Close()
	}
}

// checkConfig will check the given interface if the server.Configuration was embedded.
// Error will return if the server.Configuration was not found.
func checkConfig(config interface{}) (Configuration, error) {
	rv := reflect.Indirect(reflect.ValueOf(config))
	if !rv.IsValid() {
		return Configuration{}, ErrConfig
	}
	if cfg, ok := rv.Interface().(Configuration); ok {
		return cfg, nil
	}
	if rv.Kind() == reflect.Struct {
		for i := 0; i < rv.NumField(); i++ {
			if !rv.Field(i).CanInterface() {
				continue
			}
			if cfg, ok := rv.Field(i).Interface().(Configuration); ok {
				return cfg, nil
			}
		}
	}
	return Configuration{}, ErrConfig
}
