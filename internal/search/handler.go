package search

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{Registry: registry}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.providers)
	rg.GET("/:provider", h.search)
}

func (h *Handler) providers(c *gin.Context) {
	names := h.Registry.Names()
	providers := make([]gin.H, 0, len(names))
	for _, name := range names {
		providers = append(providers, gin.H{
			"id":   name,
			"name": FormatProviderName(name),
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *Handler) search(c *gin.Context) {
	adapter, ok := h.Registry.Lookup(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	req := Request{
		Query: c.Query("query"),
		Page:  parseInt(c.Query("page"), 1),
		Limit: parseInt(c.Query("limit"), 10),
		Filters: Filters{
			MediaType:    c.Query("type"),
			Reusability:  c.Query("reusability"),
			ImageSize:    c.Query("imageSize"),
			Country:      c.Query("country"),
			Language:     c.Query("language"),
			Colour:       c.Query("colour"),
			YearMin:      c.Query("yearMin"),
			YearMax:      c.Query("yearMax"),
			HasMedia:     c.Query("media") == "true",
			HasThumbnail: c.Query("thumbnail") == "true",
		},
	}
	if req.Page < 1 {
		req.Page = 1
	}

	res, err := adapter.Search(c.Request.Context(), req)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) {
			log.Printf("[search] %s upstream failed: %v", adapter.Name(), ue.Err)
			c.JSON(ue.StatusCode, gin.H{"error": "Failed to fetch data"})
			return
		}
		log.Printf("[search] %s failed: %v", adapter.Name(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data"})
		return
	}

	c.JSON(http.StatusOK, res)
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
