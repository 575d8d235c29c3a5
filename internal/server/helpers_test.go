package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathParam(t *testing.T) {
	cases := []struct {
		path, prefix, suffix, want string
	}{
		{"/api/portfolio/holdings/abc", "/api/portfolio/holdings/", "", "abc"},
		{"/api/products/p1/chart", "/api/products/", "/chart", "p1"},
		{"/api/products/p1", "/api/products/", "", "p1"},
		{"/api/other/p1", "/api/products/", "", ""},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, tc.path, nil)
		assert.Equal(t, tc.want, PathParam(r, tc.prefix, tc.suffix), "path %s", tc.path)
	}
}

func TestWriteJSONAndError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteJSON(rr, http.StatusTeapot, map[string]string{"k": "v"})
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"k":"v"`)

	rr = httptest.NewRecorder()
	WriteError(rr, http.StatusBadRequest, "nope")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"nope"`)
}

func TestRequireMethod(t *testing.T) {
	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.True(t, RequireMethod(rr, r, http.MethodGet, http.MethodPost))

	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/x", nil)
	assert.False(t, RequireMethod(rr, r, http.MethodGet))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	rr := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"ok"}`))
	assert.True(t, DecodeJSON(rr, r, &v))
	assert.Equal(t, "ok", v.Name)

	rr = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{bad`))
	assert.False(t, DecodeJSON(rr, r, &v))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
