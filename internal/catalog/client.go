// Package catalog proxies the hosted movie catalog. All reads go
// straight to the upstream API with the service bearer token; nothing
// is cached locally.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// APIError is a non-2xx reply from the catalog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL     string
	AccessToken string
	HTTPDoer    *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		BaseURL:     baseURL,
		AccessToken: accessToken,
		HTTPDoer:    http.DefaultClient,
	}
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// Item is one catalog entry in a list response. Movie and TV items
// share the shape; the title lives in Title or Name depending on the
// media type.
type Item struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	MediaType    string  `json:"media_type,omitempty"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count,omitempty"`
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
}

type List struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

func (c *Client) Genres(ctx context.Context, mediaType string) ([]Genre, error) {
	var out struct {
		Genres []Genre `json:"genres"`
	}
	q := url.Values{"language": {"en"}}
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", mediaType), q, &out); err != nil {
		return nil, err
	}
	return out.Genres, nil
}

// Discover lists items matching every genre in genreIDs.
func (c *Client) Discover(ctx context.Context, mediaType string, genreIDs []string, page int) (List, error) {
	q := url.Values{}
	if len(genreIDs) > 0 {
		q.Set("with_genres", strings.Join(genreIDs, ","))
	}
	setPage(q, page)
	var out List
	err := c.get(ctx, "/discover/"+mediaType, q, &out)
	return out, err
}

func (c *Client) Trending(ctx context.Context, page int) (List, error) {
	return c.list(ctx, "/trending/all/week", page)
}

func (c *Client) Popular(ctx context.Context, page int) (List, error) {
	return c.list(ctx, "/movie/popular", page)
}

func (c *Client) TopRated(ctx context.Context, page int) (List, error) {
	return c.list(ctx, "/movie/top_rated", page)
}

func (c *Client) Upcoming(ctx context.Context, page int) (List, error) {
	return c.list(ctx, "/movie/upcoming", page)
}

func (c *Client) PopularTV(ctx context.Context, page int) (List, error) {
	return c.list(ctx, "/tv/popular", page)
}

// Search runs a multi search across movies, TV shows and people.
func (c *Client) Search(ctx context.Context, query string, page int) (List, error) {
	q := url.Values{"query": {query}}
	setPage(q, page)
	var out List
	err := c.get(ctx, "/search/multi", q, &out)
	return out, err
}

// Detail returns the full upstream document for one item. The payload
// is passed through untouched.
func (c *Client) Detail(ctx context.Context, mediaType, id string) (json.RawMessage, error) {
	return c.raw(ctx, fmt.Sprintf("/%s/%s", mediaType, id), nil)
}

func (c *Client) Credits(ctx context.Context, mediaType, id string) (json.RawMessage, error) {
	return c.raw(ctx, fmt.Sprintf("/%s/%s/credits", mediaType, id), nil)
}

func (c *Client) Similar(ctx context.Context, mediaType, id string, page int) (List, error) {
	return c.list(ctx, fmt.Sprintf("/%s/%s/similar", mediaType, id), page)
}

func (c *Client) Recommendations(ctx context.Context, mediaType, id string, page int) (List, error) {
	return c.list(ctx, fmt.Sprintf("/%s/%s/recommendations", mediaType, id), page)
}

func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var out []Language
	if err := c.get(ctx, "/configuration/languages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, path string, page int) (List, error) {
	q := url.Values{}
	setPage(q, page)
	var out List
	err := c.get(ctx, path, q, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.raw(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode catalog response: %w", err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	res, err := c.HTTPDoer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var body struct {
			StatusMessage string `json:"status_message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&body)
		return nil, &APIError{StatusCode: res.StatusCode, Message: body.StatusMessage}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return raw, nil
}

func setPage(q url.Values, page int) {
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
}
