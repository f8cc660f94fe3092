package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adlens/internal/controllers"
	"adlens/internal/structures"
	"adlens/internal/testutil"
)

func routeTestController() *controllers.ApiController {
	return controllers.NewApiController(&testutil.MockLogger{}, &testutil.MockAdService{})
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})
	routes := router.GetRoutes()

	require.Len(t, routes, 8)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/search")
	assert.Contains(t, urls, "/save")
	assert.Contains(t, urls, "/saved")
	assert.Contains(t, urls, "/filters")
	assert.Contains(t, urls, "/export/curated.csv")
	assert.Contains(t, urls, "/export/raw.json")
	assert.Contains(t, urls, "/export/saved/curated.csv")
	assert.Contains(t, urls, "/export/saved/raw.json")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})

	byURL := make(map[string]http.Handler)
	for _, r := range router.GetRoutes() {
		byURL[r.Url] = r.Handler
	}

	// GET against a POST-only route
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rr := httptest.NewRecorder()
	byURL["/search"].ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// POST against a GET-only route
	req = httptest.NewRequest(http.MethodPost, "/saved", nil)
	rr = httptest.NewRecorder()
	byURL["/saved"].ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestInitRoutes_SearchReachesController(t *testing.T) {
	router := InitRoutes(routeTestController(), &structures.Config{})

	var handler http.Handler
	for _, r := range router.GetRoutes() {
		if r.Url == "/search" {
			handler = r.Handler
		}
	}
	require.NotNil(t, handler)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"keyword":"coffee"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
