package blog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"filmora/internal/session"
	"filmora/pkg/models"
)

type Handler struct {
	Svc     *Service
	Session *session.Service
}

func NewHandler(svc *Service, sess *session.Service) *Handler {
	return &Handler{Svc: svc, Session: sess}
}

// RegisterRoutes mounts the post CRUD under the protected group and the
// per-user listing under /users/me.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/blog", h.list)          // GET /blog (all), /blog?author=me
	rg.GET("/blog/:id", h.get)       // GET /blog/:id
	rg.POST("/blog", h.publish)      // POST /blog
	rg.PUT("/blog/:id", h.update)    // PUT /blog/:id
	rg.DELETE("/blog/:id", h.remove) // DELETE /blog/:id
}

func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/blog", h.listMine) // GET /users/me/blog
}

func (h *Handler) list(c *gin.Context) {
	authorID := ""
	if c.Query("author") == "me" {
		claims := session.MustGetClaims(c)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		authorID = claims.UserID
	}

	posts, err := h.Svc.List(c.Request.Context(), authorID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) listMine(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	posts, err := h.Svc.List(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type postReq struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (r postReq) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title required"
	}
	if strings.TrimSpace(r.Content) == "" {
		return "content required"
	}
	return ""
}

func (h *Handler) publish(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	saved, err := h.Svc.Publish(c.Request.Context(), models.BlogPost{
		AuthorID: claims.UserID,
		Author:   h.authorName(c, claims),
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) update(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req postReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	updated, err := h.Svc.Update(c.Request.Context(), claims.UserID, c.Param("id"),
		strings.TrimSpace(req.Title), req.Content, req.Tags)
	if err != nil {
		h.writeAuthorError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) remove(c *gin.Context) {
	claims := session.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		h.writeAuthorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func (h *Handler) writeAuthorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (h *Handler) authorName(c *gin.Context, claims *session.Claims) string {
	profile, err := h.Session.Profile(c.Request.Context(), claims.UserID)
	if err != nil || profile.FullName() == "" {
		return claims.Email
	}
	return profile.FullName()
}
