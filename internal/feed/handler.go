package feed

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"filmora/internal/state"
	"filmora/pkg/models"
)

// Loader is the slice of the remote data gateway the feed needs.
type Loader interface {
	ListComments(ctx context.Context, movieID string) ([]models.Comment, error)
	ListRatingsByStatus(ctx context.Context, status string) ([]models.Rating, error)
}

type Handler struct {
	Loader Loader
	State  *state.Store
}

func NewHandler(loader Loader, st *state.Store) *Handler {
	return &Handler{Loader: loader, State: st}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/movies/:movie_id/feed", h.get)
}

func (h *Handler) get(c *gin.Context) {
	movieID := strings.TrimSpace(c.Param("movie_id"))
	if movieID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movie_id required"})
		return
	}

	// Refresh the mirror before composing: comments for this item and
	// the approved partition, read concurrently.
	gen := h.State.Generation()
	var (
		comments []models.Comment
		approved []models.Rating
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		comments, err = h.Loader.ListComments(ctx, movieID)
		return err
	})
	g.Go(func() error {
		var err error
		approved, err = h.Loader.ListRatingsByStatus(ctx, models.StatusApproved)
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.State.DispatchAt(gen, state.CommentsLoaded{Comments: comments})
	h.State.DispatchAt(gen, state.RatingsLoaded{Approved: approved})

	_, approvedNow, _ := h.State.Partitions()
	view := Compose(approvedNow, h.State.Comments(), movieID)
	if view.Entries == nil {
		view.Entries = []Entry{}
	}
	c.JSON(http.StatusOK, view)
}
