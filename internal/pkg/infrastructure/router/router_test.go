package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestPreflightIsAnsweredForAnyOrigin(t *testing.T) {
	is := is.New(t)

	r := New("trello-stub")
	r.Put("/1/labels/{id}", func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodOptions, "/1/labels/abc", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	is.True(w.Header().Get("Access-Control-Allow-Origin") != "")
}

func TestPanicsAreRecovered(t *testing.T) {
	is := is.New(t)

	r := New("trello-stub")
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	is.Equal(w.Code, http.StatusInternalServerError)
}
