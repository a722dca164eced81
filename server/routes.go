// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"net/http"

	"github.com/patrickascher/dynapi/endpoint"
	"github.com/patrickascher/dynapi/router"
	"github.com/patrickascher/dynapi/router/jsrouter"
	"github.com/patrickascher/dynapi/router/middleware"
	"github.com/rs/cors"
)

// routerHook creates the router with the global middlewares and adds the catalog and data surface.
func (s *server) routerHook() error {
	var err error
	// redirects would answer with a html body instead of the json envelope.
	s.router, err = router.New(router.JSROUTER, jsrouter.Options{RedirectTrailingSlash: false, RedirectFixedPath: false})
	if err != nil {
		return err
	}

	s.router.SetMiddleware(router.NewMiddleware(
		middleware.NewLogger(s.logger).MW,
		middleware.NewRecover(s.logger).MW,
		middleware.NewSecureHeader().MW,
	))

	records := endpoint.NewRecords(s.engine, s.registry, s.logger)
	return endpoint.Routes(s.router, s.store, s.registry, records, s.logger)
}

// handler wraps the router with the cors handler.
func (s *server) handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(s.router.Handler())
}
