package watchlist

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"filmora/internal/session"
	"filmora/internal/stream"
	"filmora/pkg/models"
)

type Handler struct {
	Svc *Service
	Hub *stream.Hub
}

func NewHandler(svc *Service, hub *stream.Hub) *Handler {
	return &Handler{Svc: svc, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)                // GET /users/me/watchlist
	rg.POST("", h.add)                // POST /users/me/watchlist
	rg.GET("/:movie_id", h.contains)  // GET /users/me/watchlist/:movie_id
	rg.DELETE("/:movie_id", h.remove) // DELETE /users/me/watchlist/:movie_id
}

func (h *Handler) list(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entries, err := h.Svc.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": entries})
}

type addReq struct {
	MovieID     string  `json:"movie_id"`
	MovieTitle  string  `json:"movie_title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Overview    string  `json:"overview"`
}

func (h *Handler) add(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}

	saved, err := h.Svc.Add(c.Request.Context(), models.WatchlistEntry{
		UserID:      claims.UserID,
		MovieID:     movieID,
		MovieTitle:  strings.TrimSpace(req.MovieTitle),
		PosterPath:  req.PosterPath,
		ReleaseDate: req.ReleaseDate,
		VoteAverage: req.VoteAverage,
		Overview:    req.Overview,
	})
	if errors.Is(err, ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"error": "already in watchlist"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(stream.WatchlistEvent{
			Type:    stream.EventWatchlistUpdate,
			UserID:  saved.UserID,
			MovieID: saved.MovieID,
			At:      time.Now().UTC(),
		})
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) contains(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	saved, err := h.Svc.Contains(c.Request.Context(), claims.UserID, c.Param("movie_id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_watchlist": saved})
}

func (h *Handler) remove(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	movieID := c.Param("movie_id")
	err := h.Svc.Remove(c.Request.Context(), claims.UserID, movieID)
	if errors.Is(err, ErrNotSaved) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not in watchlist"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(stream.WatchlistEvent{
			Type:    stream.EventWatchlistDelete,
			UserID:  claims.UserID,
			MovieID: movieID,
			At:      time.Now().UTC(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"removed": movieID})
}
