// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package endpoint_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patrickascher/dynapi/cache"
	_ "github.com/patrickascher/dynapi/cache/memory"
	"github.com/patrickascher/dynapi/catalog"
	"github.com/patrickascher/dynapi/endpoint"
	"github.com/patrickascher/dynapi/persistence"
	"github.com/patrickascher/dynapi/query"
	_ "github.com/patrickascher/dynapi/query/sqlite"
	"github.com/patrickascher/dynapi/router"
	_ "github.com/patrickascher/dynapi/router/jsrouter"
	"github.com/patrickascher/dynapi/schema"
	"github.com/stretchr/testify/assert"
)

// api is the fully wired http handler on a temporary database.
type api struct {
	t        *testing.T
	handler  http.Handler
	store    *catalog.Store
	registry *endpoint.Registry
}

func newStack(t *testing.T) (*persistence.Engine, *catalog.Store, *endpoint.Registry) {
	b, err := query.New("sqlite", query.Config{Database: filepath.Join(t.TempDir(), "api.db")})
	if err != nil {
		t.Fatal(err)
	}
	e, err := persistence.New(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = e.Close() })

	s, err := catalog.New(e, schema.New(nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = s.Migrate(); err != nil {
		t.Fatal(err)
	}

	c, err := cache.New(cache.MEMORY, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)
	reg, err := endpoint.NewRegistry(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.SetObserver(reg)
	return e, s, reg
}

func newAPI(t *testing.T) *api {
	e, s, reg := newStack(t)
	r, err := router.New(router.JSROUTER, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = endpoint.Routes(r, s, reg, endpoint.NewRecords(e, reg, nil), nil); err != nil {
		t.Fatal(err)
	}
	return &api{t: t, handler: r.Handler(), store: s, registry: reg}
}

// do executes the request and decodes the json response.
func (a *api) do(method string, path string, body string) (int, map[string]interface{}) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, httptest.NewRequest(method, path, rd))

	var rv map[string]interface{}
	if w.Body.Len() > 0 {
		dec := json.NewDecoder(w.Body)
		dec.UseNumber()
		if err := dec.Decode(&rv); err != nil {
			a.t.Fatalf("%s %s: %s", method, path, err)
		}
	}
	return w.Code, rv
}

// table creates a table with the columns and returns its id.
func (a *api) table(name string, columns ...string) string {
	code, res := a.do(http.MethodPost, "/api/v1/tables", `{"name":"`+name+`"}`)
	if code != http.StatusCreated {
		a.t.Fatalf("create table %s: %d %v", name, code, res)
	}
	tableID := data(res)["id"].(json.Number).String()
	for _, c := range columns {
		code, res = a.do(http.MethodPost, "/api/v1/columns", `{"table_id":`+tableID+`,`+c+`}`)
		if code != http.StatusCreated {
			a.t.Fatalf("create column %s: %d %v", c, code, res)
		}
	}
	return tableID
}

func data(res map[string]interface{}) map[string]interface{} {
	d, _ := res["data"].(map[string]interface{})
	return d
}

func errCode(res map[string]interface{}) string {
	e, _ := res["error"].(map[string]interface{})
	c, _ := e["code"].(string)
	return c
}

func errFields(res map[string]interface{}) []string {
	e, _ := res["error"].(map[string]interface{})
	details, _ := e["details"].([]interface{})
	var rv []string
	for _, d := range details {
		rv = append(rv, d.(map[string]interface{})["field"].(string))
	}
	return rv
}

// TestWidgets tests the complete lifecycle of a declared table.
func TestWidgets(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)

	a.table("widgets",
		`"name":"label","data_type":"short_text","is_required":true`,
		`"name":"qty","data_type":"integer","default_value":0`,
	)

	code, res := a.do(http.MethodPost, "/api/v1/data/widgets", `{"label":"A"}`)
	asserts.Equal(http.StatusCreated, code)
	rec := data(res)
	asserts.Equal("A", rec["label"])
	asserts.Equal(json.Number("0"), rec["qty"])
	asserts.NotEmpty(rec["created_at"])
	asserts.Equal(rec["created_at"], rec["updated_at"])
	path := "/api/v1/data/widgets/" + rec["id"].(json.Number).String()

	code, res = a.do(http.MethodPut, path, `{"qty":5}`)
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(json.Number("5"), data(res)["qty"])
	asserts.Equal("A", data(res)["label"])
	asserts.True(data(res)["updated_at"].(string) > rec["updated_at"].(string))

	code, res = a.do(http.MethodGet, path, "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(json.Number("5"), data(res)["qty"])

	code, res = a.do(http.MethodDelete, path, "")
	asserts.Equal(http.StatusNoContent, code)
	asserts.Nil(res)

	code, res = a.do(http.MethodGet, path, "")
	asserts.Equal(http.StatusNotFound, code)
	asserts.Equal("NOT_FOUND", errCode(res))

	code, _ = a.do(http.MethodDelete, path, "")
	asserts.Equal(http.StatusNotFound, code)
	code, _ = a.do(http.MethodPut, path, `{"qty":1}`)
	asserts.Equal(http.StatusNotFound, code)
}

// TestPagination tests limit, offset, order and the pagination block.
func TestPagination(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)
	a.table("items", `"name":"label","data_type":"short_text"`)

	for i := 0; i < 25; i++ {
		code, _ := a.do(http.MethodPost, "/api/v1/data/items", fmt.Sprintf(`{"label":"r%d"}`, i))
		asserts.Equal(http.StatusCreated, code)
	}

	code, res := a.do(http.MethodGet, "/api/v1/data/items", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(20, len(res["data"].([]interface{})))
	asserts.Equal("r24", res["data"].([]interface{})[0].(map[string]interface{})["label"])
	p := res["pagination"].(map[string]interface{})
	asserts.Equal(json.Number("25"), p["total"])
	asserts.Equal(json.Number("20"), p["limit"])
	asserts.Equal(json.Number("0"), p["offset"])
	asserts.Equal(true, p["hasMore"])

	code, res = a.do(http.MethodGet, "/api/v1/data/items?limit=20&offset=20", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(5, len(res["data"].([]interface{})))
	asserts.Equal("r4", res["data"].([]interface{})[0].(map[string]interface{})["label"])
	asserts.Equal(false, res["pagination"].(map[string]interface{})["hasMore"])

	code, res = a.do(http.MethodGet, "/api/v1/data/items?offset=30", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(0, len(res["data"].([]interface{})))

	for _, q := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1"} {
		code, res = a.do(http.MethodGet, "/api/v1/data/items?"+q, "")
		asserts.Equal(http.StatusBadRequest, code, q)
		asserts.Equal("VALIDATION_ERROR", errCode(res), q)
	}
}

// TestRequiredOptional tests the create and update descriptor.
func TestRequiredOptional(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)
	a.table("notes",
		`"name":"c1","data_type":"short_text","is_required":true,"max_length":5`,
		`"name":"c2","data_type":"short_text"`,
	)

	code, res := a.do(http.MethodPost, "/api/v1/data/notes", `{}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"c1"}, errFields(res))

	code, res = a.do(http.MethodPost, "/api/v1/data/notes", `{"c1":"x"}`)
	asserts.Equal(http.StatusCreated, code)
	asserts.Nil(data(res)["c2"])
	_, ok := data(res)["c2"]
	asserts.True(ok)
	path := "/api/v1/data/notes/" + data(res)["id"].(json.Number).String()

	// unknown, read-only, too long and wrong type.
	code, res = a.do(http.MethodPost, "/api/v1/data/notes", `{"c1":"toolong","c2":1,"id":1,"foo":"bar"}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"c1", "c2", "foo", "id"}, errFields(res))

	// required can not be nulled, optional can.
	code, res = a.do(http.MethodPut, path, `{"c1":null}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"c1"}, errFields(res))
	code, res = a.do(http.MethodPut, path, `{"c2":"y"}`)
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("y", data(res)["c2"])
	code, res = a.do(http.MethodPut, path, `{"c2":null}`)
	asserts.Equal(http.StatusOK, code)
	asserts.Nil(data(res)["c2"])

	// validation runs before the existence check.
	code, _ = a.do(http.MethodPut, "/api/v1/data/notes/999", `{"foo":1}`)
	asserts.Equal(http.StatusBadRequest, code)

	// malformed bodies.
	for _, b := range []string{"", "[]", "null", `{"c1":"x"} {}`, "{"} {
		code, res = a.do(http.MethodPost, "/api/v1/data/notes", b)
		asserts.Equal(http.StatusBadRequest, code, b)
		asserts.Equal("VALIDATION_ERROR", errCode(res), b)
	}

	// invalid ids can never exist.
	code, _ = a.do(http.MethodGet, "/api/v1/data/notes/abc", "")
	asserts.Equal(http.StatusNotFound, code)
	code, _ = a.do(http.MethodGet, "/api/v1/data/notes/0", "")
	asserts.Equal(http.StatusNotFound, code)
}

// TestRoundTrip tests every semantic type with boundary values.
func TestRoundTrip(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)
	a.table("values",
		`"name":"s","data_type":"short_text"`,
		`"name":"l","data_type":"long_text"`,
		`"name":"i","data_type":"integer"`,
		`"name":"f","data_type":"float"`,
		`"name":"b","data_type":"boolean"`,
		`"name":"d","data_type":"date"`,
		`"name":"ts","data_type":"timestamp"`,
	)

	code, res := a.do(http.MethodPost, "/api/v1/data/values", `{"s":"","l":"it's \"quoted\"","i":0,"f":-1.5,"b":false,"d":"2024-02-29","ts":"2024-01-01T01:00:00+01:00"}`)
	asserts.Equal(http.StatusCreated, code)
	code, res = a.do(http.MethodGet, "/api/v1/data/values/"+data(res)["id"].(json.Number).String(), "")
	asserts.Equal(http.StatusOK, code)

	rec := data(res)
	asserts.Equal("", rec["s"])
	asserts.Equal(`it's "quoted"`, rec["l"])
	asserts.Equal(json.Number("0"), rec["i"])
	asserts.Equal(json.Number("-1.5"), rec["f"])
	asserts.Equal(false, rec["b"])
	asserts.Equal("2024-02-29", rec["d"])
	asserts.Equal("2024-01-01T00:00:00.000000Z", rec["ts"])

	code, res = a.do(http.MethodPost, "/api/v1/data/values", `{"i":1.5,"f":"x","b":0,"d":"2023-02-29","ts":"yesterday"}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"b", "d", "f", "i", "ts"}, errFields(res))
}

// TestDeletedTable tests that the data surface of a deleted table is gone.
func TestDeletedTable(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)
	tableID := a.table("gone", `"name":"label","data_type":"short_text"`)

	code, res := a.do(http.MethodPost, "/api/v1/data/gone", `{"label":"x"}`)
	asserts.Equal(http.StatusCreated, code)
	path := "/api/v1/data/gone/" + data(res)["id"].(json.Number).String()

	code, _ = a.do(http.MethodDelete, "/api/v1/tables/"+tableID, "")
	asserts.Equal(http.StatusNoContent, code)

	for _, r := range [][2]string{
		{http.MethodGet, "/api/v1/data/gone"},
		{http.MethodPost, "/api/v1/data/gone"},
		{http.MethodGet, path},
		{http.MethodPut, path},
		{http.MethodDelete, path},
	} {
		code, res = a.do(r[0], r[1], `{"label":"y"}`)
		asserts.Equal(http.StatusNotFound, code, r[0]+" "+r[1])
		asserts.Equal("NOT_FOUND", errCode(res))
		asserts.Equal(`table gone not found`, res["error"].(map[string]interface{})["message"])
	}

	// the name can be declared again and starts empty.
	a.table("gone")
	code, res = a.do(http.MethodGet, "/api/v1/data/gone", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(0, len(res["data"].([]interface{})))
}

// TestColumnChanges tests that column changes are visible on the data surface immediately.
func TestColumnChanges(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)
	tableID := a.table("tasks", `"name":"title","data_type":"short_text"`)

	code, res := a.do(http.MethodPost, "/api/v1/columns", `{"table_id":`+tableID+`,"name":"done","data_type":"boolean","default_value":false}`)
	asserts.Equal(http.StatusCreated, code)
	columnID := data(res)["id"].(json.Number).String()

	code, res = a.do(http.MethodPost, "/api/v1/data/tasks", `{"title":"a"}`)
	asserts.Equal(http.StatusCreated, code)
	asserts.Equal(false, data(res)["done"])

	// required is enforced on create only after the update.
	code, _ = a.do(http.MethodPut, "/api/v1/columns/"+columnID, `{"is_required":true}`)
	asserts.Equal(http.StatusOK, code)
	code, res = a.do(http.MethodPost, "/api/v1/data/tasks", `{"title":"b"}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"done"}, errFields(res))

	code, _ = a.do(http.MethodDelete, "/api/v1/columns/"+columnID, "")
	asserts.Equal(http.StatusNoContent, code)
	code, res = a.do(http.MethodPost, "/api/v1/data/tasks", `{"title":"c","done":true}`)
	asserts.Equal(http.StatusBadRequest, code)
	asserts.Equal([]string{"done"}, errFields(res))
	code, res = a.do(http.MethodGet, "/api/v1/data/tasks", "")
	asserts.Equal(http.StatusOK, code)
	_, ok := res["data"].([]interface{})[0].(map[string]interface{})["done"]
	asserts.False(ok)
}

// TestCatalog tests the catalog surface and its errors.
func TestCatalog(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)

	// empty catalog renders an empty list.
	code, res := a.do(http.MethodGet, "/api/v1/tables", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal([]interface{}{}, res["data"])

	tableID := a.table("customers", `"name":"email","data_type":"short_text","max_length":120`)

	code, res = a.do(http.MethodGet, "/api/v1/tables", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal(1, len(res["data"].([]interface{})))

	code, res = a.do(http.MethodGet, "/api/v1/tables?name=customers", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("Customers", data(res)["display_name"])
	asserts.Equal(1, len(data(res)["columns"].([]interface{})))
	code, _ = a.do(http.MethodGet, "/api/v1/tables?name=unknown", "")
	asserts.Equal(http.StatusNotFound, code)

	code, res = a.do(http.MethodGet, "/api/v1/tables/"+tableID, "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("customers", data(res)["name"])

	code, res = a.do(http.MethodGet, "/api/v1/tables/"+tableID+"/columns", "")
	asserts.Equal(http.StatusOK, code)
	col := res["data"].([]interface{})[0].(map[string]interface{})
	asserts.Equal("email", col["name"])
	asserts.Equal(json.Number("120"), col["max_length"])
	columnID := col["id"].(json.Number).String()

	code, res = a.do(http.MethodGet, "/api/v1/columns/"+columnID, "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("Email", data(res)["display_name"])

	code, res = a.do(http.MethodPut, "/api/v1/columns/"+columnID, `{"display_name":"E-Mail"}`)
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("E-Mail", data(res)["display_name"])

	tests := []struct {
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{http.MethodPost, "/api/v1/tables", `{"name":"customers"}`, http.StatusConflict, "DUPLICATE"},
		{http.MethodPost, "/api/v1/tables", `{"name":"Customers"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/tables", `{"name":"sqlite_master"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/tables", `{"name":"orders","color":"red"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/tables", `{"name":1}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodGet, "/api/v1/tables/abc", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodGet, "/api/v1/tables/999", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodDelete, "/api/v1/tables/999", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodGet, "/api/v1/tables/999/columns", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodPost, "/api/v1/columns", `{"name":"x","data_type":"integer"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":999,"name":"x","data_type":"integer"}`, http.StatusNotFound, "NOT_FOUND"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":` + tableID + `,"name":"email","data_type":"integer"}`, http.StatusConflict, "DUPLICATE"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":` + tableID + `,"name":"x","data_type":"money"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":` + tableID + `,"name":"x","data_type":"integer","is_unique":true}`, http.StatusBadRequest, "POLICY_VIOLATION"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":` + tableID + `,"name":"x","data_type":"integer","default_value":"abc"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPost, "/api/v1/columns", `{"table_id":` + tableID + `,"name":"created_at","data_type":"timestamp"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPut, "/api/v1/columns/" + columnID, `{"name":"mail"}`, http.StatusBadRequest, "POLICY_VIOLATION"},
		{http.MethodPut, "/api/v1/columns/" + columnID, `{"data_type":"integer"}`, http.StatusBadRequest, "POLICY_VIOLATION"},
		{http.MethodPut, "/api/v1/columns/" + columnID, `{"colour":"red"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{http.MethodPut, "/api/v1/columns/999", `{"display_name":"x"}`, http.StatusNotFound, "NOT_FOUND"},
		{http.MethodDelete, "/api/v1/columns/999", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound, "NOT_FOUND"},
		{http.MethodPatch, "/api/v1/tables", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, test := range tests {
		t.Run(test.method+" "+test.path+" "+test.body, func(t *testing.T) {
			code, res := a.do(test.method, test.path, test.body)
			assert.Equal(t, test.status, code)
			assert.Equal(t, test.code, errCode(res))
		})
	}
}

// TestHealth tests the health check.
func TestHealth(t *testing.T) {
	asserts := assert.New(t)
	a := newAPI(t)

	code, res := a.do(http.MethodGet, "/health", "")
	asserts.Equal(http.StatusOK, code)
	asserts.Equal("ok", res["status"])
}
