package moderation

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
	Svc     *Service
	Session *session.Service
	Hub     *stream.Hub
}

func NewHandler(svc *Service, sess *session.Service, hub *stream.Hub) *Handler {
	return &Handler{Svc: svc, Session: sess, Hub: hub}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/ratings", h.submitRating)
	rg.POST("/comments", h.submitComment)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/ratings", h.listAll)
	rg.POST("/ratings/:id/approve", h.decide(models.StatusApproved))
	rg.POST("/ratings/:id/reject", h.decide(models.StatusRejected))
}

type submitRatingReq struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

func (h *Handler) submitRating(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitRatingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
		return
	}
	body := strings.TrimSpace(req.Comment)
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment required"})
		return
	}

	saved, err := h.Svc.Submit(c.Request.Context(), models.Rating{
		UserID:     claims.UserID,
		UserName:   h.displayName(c, claims),
		MovieID:    movieID,
		MovieTitle: strings.TrimSpace(req.MovieTitle),
		Rating:     req.Rating,
		Comment:    body,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(stream.ModerationEvent{
			Type:       stream.EventRatingSubmitted,
			ID:         saved.ID,
			MovieID:    saved.MovieID,
			MovieTitle: saved.MovieTitle,
			At:         time.Now().UTC(),
		})
	}

	c.JSON(http.StatusCreated, saved)
}

type submitCommentReq struct {
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title"`
	Comment    string `json:"comment"`
}

func (h *Handler) submitComment(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	movieID := strings.TrimSpace(req.MovieID)
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}
	body := strings.TrimSpace(req.Comment)
	if body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment required"})
		return
	}

	saved, err := h.Svc.SubmitComment(c.Request.Context(), models.Comment{
		UserID:     claims.UserID,
		UserName:   h.displayName(c, claims),
		MovieID:    movieID,
		MovieTitle: strings.TrimSpace(req.MovieTitle),
		Comment:    body,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if h.Hub != nil {
		go h.Hub.BroadcastJSON(stream.ModerationEvent{
			Type:       stream.EventCommentCreated,
			ID:         saved.ID,
			MovieID:    saved.MovieID,
			MovieTitle: saved.MovieTitle,
			At:         time.Now().UTC(),
		})
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) listAll(c *gin.Context) {
	pending, approved, rejected, err := h.Svc.LoadAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pending":  emptyIfNil(pending),
		"approved": emptyIfNil(approved),
		"rejected": emptyIfNil(rejected),
	})
}

func (h *Handler) decide(outcome string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ratingID := strings.TrimSpace(c.Param("id"))
		if ratingID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
			return
		}

		err := h.Svc.Decide(c.Request.Context(), ratingID, outcome)
		if errors.Is(err, ErrAlreadyDecided) {
			c.JSON(http.StatusConflict, gin.H{"error": "rating already decided"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		if h.Hub != nil {
			evType := stream.EventRatingApproved
			if outcome == models.StatusRejected {
				evType = stream.EventRatingRejected
			}
			go h.Hub.BroadcastJSON(stream.ModerationEvent{
				Type: evType,
				ID:   ratingID,
				At:   time.Now().UTC(),
			})
		}

		c.JSON(http.StatusOK, gin.H{"status": outcome})
	}
}

// displayName resolves the author's display name from the mirrored
// profile, falling back to the email on the claims as the original does
// for profiles that were never set up.
func (h *Handler) displayName(c *gin.Context, claims *session.Claims) string {
	profile, err := h.Session.Profile(c.Request.Context(), claims.UserID)
	if err != nil || profile.FullName() == "" {
		return claims.Email
	}
	return profile.FullName()
}

func emptyIfNil(in []models.Rating) []models.Rating {
	if in == nil {
		return []models.Rating{}
	}
	return in
}
