package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.genres)       // GET /catalog/genres?media_type=tv
	rg.GET("/discover", h.discover)   // GET /catalog/discover?genres=28,12&page=2
	rg.GET("/trending", h.trending)   // GET /catalog/trending
	rg.GET("/popular", h.popular)     // GET /catalog/popular
	rg.GET("/top-rated", h.topRated)  // GET /catalog/top-rated
	rg.GET("/upcoming", h.upcoming)   // GET /catalog/upcoming
	rg.GET("/tv", h.tv)               // GET /catalog/tv
	rg.GET("/search", h.search)       // GET /catalog/search?q=dune
	rg.GET("/languages", h.languages) // GET /catalog/languages

	rg.GET("/:media_type/:id", h.detail)
	rg.GET("/:media_type/:id/credits", h.credits)
	rg.GET("/:media_type/:id/similar", h.similar)
	rg.GET("/:media_type/:id/recommendations", h.recommendations)
}

func (h *Handler) genres(c *gin.Context) {
	mt := c.DefaultQuery("media_type", "movie")
	if !validMediaType(mt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be movie or tv"})
		return
	}
	genres, err := h.Client.Genres(c.Request.Context(), mt)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func (h *Handler) discover(c *gin.Context) {
	mt := c.DefaultQuery("media_type", "movie")
	if !validMediaType(mt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be movie or tv"})
		return
	}

	// genres=28,12 OR genres=28&genres=12
	genres := c.QueryArray("genres")
	if len(genres) == 1 && strings.Contains(genres[0], ",") {
		genres = strings.Split(genres[0], ",")
	}

	list, err := h.Client.Discover(c.Request.Context(), mt, genres, pageOf(c))
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) trending(c *gin.Context) { h.listOf(c, h.Client.Trending) }
func (h *Handler) popular(c *gin.Context)  { h.listOf(c, h.Client.Popular) }
func (h *Handler) topRated(c *gin.Context) { h.listOf(c, h.Client.TopRated) }
func (h *Handler) upcoming(c *gin.Context) { h.listOf(c, h.Client.Upcoming) }
func (h *Handler) tv(c *gin.Context)       { h.listOf(c, h.Client.PopularTV) }

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	list, err := h.Client.Search(c.Request.Context(), q, pageOf(c))
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) languages(c *gin.Context) {
	langs, err := h.Client.Languages(c.Request.Context())
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": langs})
}

func (h *Handler) detail(c *gin.Context) {
	mt, id, ok := h.itemParams(c)
	if !ok {
		return
	}
	raw, err := h.Client.Detail(c.Request.Context(), mt, id)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) credits(c *gin.Context) {
	mt, id, ok := h.itemParams(c)
	if !ok {
		return
	}
	raw, err := h.Client.Credits(c.Request.Context(), mt, id)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) similar(c *gin.Context) {
	mt, id, ok := h.itemParams(c)
	if !ok {
		return
	}
	list, err := h.Client.Similar(c.Request.Context(), mt, id, pageOf(c))
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) recommendations(c *gin.Context) {
	mt, id, ok := h.itemParams(c)
	if !ok {
		return
	}
	list, err := h.Client.Recommendations(c.Request.Context(), mt, id, pageOf(c))
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) itemParams(c *gin.Context) (mediaType, id string, ok bool) {
	mediaType = c.Param("media_type")
	if !validMediaType(mediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type must be movie or tv"})
		return "", "", false
	}
	return mediaType, c.Param("id"), true
}

func (h *Handler) listOf(c *gin.Context, fetch func(ctx context.Context, page int) (List, error)) {
	list, err := fetch(c.Request.Context(), pageOf(c))
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func validMediaType(mt string) bool {
	return mt == "movie" || mt == "tv"
}

func pageOf(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func writeUpstreamError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
}
