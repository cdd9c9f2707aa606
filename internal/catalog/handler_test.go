package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T, upstreamFn http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(upstream(t, upstreamFn)).RegisterRoutes(r.Group("/catalog"))
	return r
}

func TestSearchRequiresQuery(t *testing.T) {
	r := testRouter(t, func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("upstream must not be called")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDetailRejectsUnknownMediaType(t *testing.T) {
	r := testRouter(t, func(w http.ResponseWriter, req *http.Request) {
		t.Fatal("upstream must not be called")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/person/42", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiscoverProxiesGenreQuery(t *testing.T) {
	var gotGenres, gotPage string
	r := testRouter(t, func(w http.ResponseWriter, req *http.Request) {
		gotGenres = req.URL.Query().Get("with_genres")
		gotPage = req.URL.Query().Get("page")
		w.Write([]byte(`{"page":3,"results":[{"id":7,"title":"X"}],"total_pages":5,"total_results":90}`))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/discover?genres=28,12&page=3", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "28,12", gotGenres)
	assert.Equal(t, "3", gotPage)
	assert.Contains(t, w.Body.String(), `"total_results":90`)
}

func TestTrendingMapsUpstreamFailureToBadGateway(t *testing.T) {
	r := testRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/trending", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestDetailNotFoundMapsTo404(t *testing.T) {
	r := testRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"not found"}`))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/movie/0", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
