// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"net/http"

	"github.com/patrickascher/dynapi/apperror"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/controller/context"
	"github.com/patrickascher/dynapi/logger"
	"github.com/patrickascher/dynapi/router"
)

// Prefix of the catalog and data surface.
const Prefix = "/api/v1"

// HealthPattern of the health check.
const HealthPattern = "/health"

// Routes adds the catalog surface, the data surface and the health check to the router.
// Every unmatched request renders the NOT_FOUND envelope.
func Routes(r router.Manager, store *catalog.Store, registry *Registry, records *Records, l logger.Manager) error {
	cat := &catalogController{store: store}
	cat.SetLogger(l)
	data := &dataController{registry: registry, records: records}
	data.SetLogger(l)

	get := []string{http.MethodGet}
	post := []string{http.MethodPost}
	put := []string{http.MethodPut}
	del := []string{http.MethodDelete}

	routes := []router.Route{
		router.NewRoute(HealthPattern, health),

		// catalog
		router.NewRoute(Prefix+"/tables", cat,
			router.NewMapping(get, cat.Tables, nil),
			router.NewMapping(post, cat.CreateTable, nil)),
		router.NewRoute(Prefix+"/tables/:id", cat,
			router.NewMapping(get, cat.Table, nil),
			router.NewMapping(del, cat.DeleteTable, nil)),
		router.NewRoute(Prefix+"/tables/:id/columns", cat,
			router.NewMapping(get, cat.TableColumns, nil)),
		router.NewRoute(Prefix+"/columns", cat,
			router.NewMapping(post, cat.CreateColumn, nil)),
		router.NewRoute(Prefix+"/columns/:id", cat,
			router.NewMapping(get, cat.Column, nil),
			router.NewMapping(put, cat.UpdateColumn, nil),
			router.NewMapping(del, cat.DeleteColumn, nil)),

		// data
		router.NewRoute(Prefix+"/data/:table", data,
			router.NewMapping(get, data.List, nil),
			router.NewMapping(post, data.Create, nil)),
		router.NewRoute(Prefix+"/data/:table/:id", data,
			router.NewMapping(get, data.Get, nil),
			router.NewMapping(put, data.Update, nil),
			router.NewMapping(del, data.Delete, nil)),
	}

	for _, route := range routes {
		if err := r.AddRoute(route); err != nil {
			return err
		}
	}
	r.SetNotFound(http.HandlerFunc(notFound))
	return nil
}

// health renders the status of the service.
func health(w http.ResponseWriter, r *http.Request) {
	res := context.New(w, r).Response
	res.SetValue("status", "ok")
	if err := res.Render(context.JSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// notFound renders the NOT_FOUND envelope for unmatched routes.
func notFound(w http.ResponseWriter, r *http.Request) {
	res := context.New(w, r).Response
	if err := res.Error(http.StatusNotFound, apperror.NotFound("route", r.URL.Path), context.JSON); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
	}
}
