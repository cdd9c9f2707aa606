package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"filmora/internal/gateway"
	"filmora/pkg/models"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signin", h.signIn)
	rg.POST("/register", h.register)
	rg.POST("/session", h.fromIDToken)
	rg.POST("/signout", AuthMiddleware(h.Svc.Tokens), h.signOut)
}

func (h *Handler) RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.POST("/me/profile", h.setupProfile)
	rg.PUT("/me/profile", h.updateProfile)
}

type signInReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	sess, err := h.Svc.SignIn(c.Request.Context(), email, req.Password)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
		return
	}

	sess, err := h.Svc.Register(c.Request.Context(), email, req.Password,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName))
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

type idTokenReq struct {
	IDToken string `json:"id_token"`
}

func (h *Handler) fromIDToken(c *gin.Context) {
	var req idTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.IDToken) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}

	sess, err := h.Svc.FromIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id token"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) signOut(c *gin.Context) {
	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.Svc.SignOut(claims.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

func (h *Handler) me(c *gin.Context) {
	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.Svc.Profile(c.Request.Context(), claims.UserID)
	if errors.Is(err, gateway.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{
			"id":          claims.UserID,
			"email":       claims.Email,
			"needs_setup": true,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

type profileReq struct {
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Bio            string   `json:"bio"`
	FavoriteGenres []string `json:"favorite_genres"`
	Avatar         string   `json:"avatar"`
}

func (h *Handler) setupProfile(c *gin.Context) {
	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.FirstName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name required"})
		return
	}
	if len(req.FavoriteGenres) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 5 favorite genres"})
		return
	}

	profile, err := h.Svc.SetupProfile(c.Request.Context(), claims.UserID, claims.Email, models.UserProfile{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Bio:            strings.TrimSpace(req.Bio),
		FavoriteGenres: req.FavoriteGenres,
		Avatar:         strings.TrimSpace(req.Avatar),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *Handler) updateProfile(c *gin.Context) {
	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.FavoriteGenres) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 5 favorite genres"})
		return
	}

	fields := map[string]any{
		"firstName":      strings.TrimSpace(req.FirstName),
		"lastName":       strings.TrimSpace(req.LastName),
		"bio":            strings.TrimSpace(req.Bio),
		"favoriteGenres": req.FavoriteGenres,
		"avatar":         strings.TrimSpace(req.Avatar),
	}
	profile, err := h.Svc.UpdateProfile(c.Request.Context(), claims.UserID, fields)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func writeAuthError(c *gin.Context, err error) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Message, "code": authErr.Code})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
