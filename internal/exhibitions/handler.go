package exhibitions

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"artefacthub/internal/auth"
	"artefacthub/internal/sync"
	"artefacthub/pkg/models"
)

type Handler struct {
	Repo *Repo
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exhibitions", h.list)
	rg.POST("/exhibitions", h.create)
	rg.GET("/exhibitions/:id", h.getOne)
	rg.PATCH("/exhibitions/:id", h.replaceItems)
	rg.DELETE("/exhibitions/:id", h.remove)
	rg.POST("/exhibitions/:id/items", h.addItem)
	rg.GET("/exhibitions/:id/items", h.listItems)
}

type createReq struct {
	Name string `json:"name"`
}

func (h *Handler) create(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	ex, err := h.Repo.Create(c.Request.Context(), claims.UserID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	h.broadcast(sync.EventExhibitionCreated, ex)
	c.JSON(http.StatusCreated, ex)
}

func (h *Handler) list(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	exhibitions, err := h.Repo.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exhibitions": exhibitions})
}

func (h *Handler) getOne(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ex, err := h.Repo.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.writeRepoError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

type addItemReq struct {
	Item models.NormalizedItem `json:"item"`
}

func (h *Handler) addItem(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Item.Title) == "" || strings.TrimSpace(req.Item.Source) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item title and source required"})
		return
	}

	ex, err := h.Repo.AddItem(c.Request.Context(), c.Param("id"), claims.UserID, req.Item)
	if err != nil {
		h.writeRepoError(c, err)
		return
	}

	h.broadcast(sync.EventItemAdded, ex)
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"exhibition": ex,
		"itemsCount": len(ex.SavedItems),
	})
}

func (h *Handler) listItems(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ex, err := h.Repo.Get(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		h.writeRepoError(c, err)
		return
	}

	page := parseInt(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	pageSize := parseInt(c.Query("pageSize"), 10)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	sorted := SortItems(ex.SavedItems, c.Query("sortBy"))

	// exhibition items are paginated purely in memory over the full set
	total := len(sorted)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       sorted[start:end],
		"pagination": models.NewPaginationEnvelope(page, pageSize, total),
	})
}

type replaceItemsReq struct {
	SavedItems []models.NormalizedItem `json:"savedItems"`
}

// replaceItems is the removal path: the client sends back the full filtered
// collection and it replaces whatever was stored. Concurrent removals can
// lose an update; there is no per-item delete.
func (h *Handler) replaceItems(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req replaceItemsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ex, err := h.Repo.ReplaceItems(c.Request.Context(), c.Param("id"), claims.UserID, req.SavedItems)
	if err != nil {
		h.writeRepoError(c, err)
		return
	}

	h.broadcast(sync.EventItemsReplaced, ex)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"exhibition": ex,
		"itemsCount": len(ex.SavedItems),
	})
}

func (h *Handler) remove(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id := c.Param("id")
	if err := h.Repo.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		h.writeRepoError(c, err)
		return
	}

	if h.Hub != nil {
		ev := sync.ExhibitionEvent{
			Type:         sync.EventExhibitionDeleted,
			UserID:       claims.UserID,
			ExhibitionID: id,
			At:           time.Now().UTC(),
		}
		go h.Hub.BroadcastJSON(ev)
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) broadcast(eventType string, ex *models.Exhibition) {
	if h.Hub == nil {
		return
	}
	ev := sync.ExhibitionEvent{
		Type:         eventType,
		UserID:       ex.UserID,
		ExhibitionID: ex.ID,
		Name:         ex.Name,
		ItemsCount:   len(ex.SavedItems),
		At:           time.Now().UTC(),
	}
	go h.Hub.BroadcastJSON(ev)
}

func (h *Handler) writeRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "exhibition not found"})
	case errors.Is(err, ErrDuplicateItem):
		c.JSON(http.StatusConflict, gin.H{"error": "item already saved to this exhibition"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "request failed"})
	}
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
