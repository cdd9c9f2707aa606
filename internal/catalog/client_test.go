package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstream(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-token")
	c.HTTPDoer = srv.Client()
	return c
}

func TestGenresSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`{"genres":[{"id":28,"name":"Action"},{"id":18,"name":"Drama"}]}`))
	})

	genres, err := c.Genres(context.Background(), "movie")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/genre/movie/list", gotPath)
	require.Len(t, genres, 2)
	assert.Equal(t, "Action", genres[0].Name)
}

func TestDiscoverJoinsGenreSet(t *testing.T) {
	var gotQuery string
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("with_genres")
		w.Write([]byte(`{"page":2,"results":[{"id":1,"title":"A"}],"total_pages":10,"total_results":195}`))
	})

	list, err := c.Discover(context.Background(), "movie", []string{"28", "12"}, 2)
	require.NoError(t, err)

	assert.Equal(t, "28,12", gotQuery)
	assert.Equal(t, 2, list.Page)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "A", list.Results[0].Title)
}

func TestSearchEscapesQuery(t *testing.T) {
	var gotQuery string
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	_, err := c.Search(context.Background(), "dune part two", 1)
	require.NoError(t, err)
	assert.Equal(t, "dune part two", gotQuery)
}

func TestPageClampedToOne(t *testing.T) {
	var gotPage string
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"page":1,"results":[]}`))
	})

	_, err := c.Trending(context.Background(), -3)
	require.NoError(t, err)
	assert.Equal(t, "1", gotPage)
}

func TestUpstreamErrorSurfacesStatus(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
	})

	_, err := c.Detail(context.Background(), "movie", "0")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "could not be found")
}

func TestDetailPassesRawPayloadThrough(t *testing.T) {
	payload := `{"id":42,"title":"The Answer","runtime":101,"genres":[{"id":18,"name":"Drama"}]}`
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	raw, err := c.Detail(context.Background(), "movie", "42")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(raw))
}

func TestLanguages(t *testing.T) {
	c := upstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/configuration/languages", r.URL.Path)
		w.Write([]byte(`[{"iso_639_1":"en","english_name":"English","name":"English"}]`))
	})

	langs, err := c.Languages(context.Background())
	require.NoError(t, err)
	require.Len(t, langs, 1)
	assert.Equal(t, "en", langs[0].Code)
}
