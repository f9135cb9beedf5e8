package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"collabhub/services/search"
	"collabhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// Searcher is implemented by *search.Composer.
type Searcher interface {
	Search(ctx context.Context, f search.Filters) ([]search.Result, error)
}

type SearchHandler struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewSearchHandler(searcher Searcher, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// listParam accepts both repeated parameters and comma-separated values.
func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// SearchHandler answers GET /api/search.
func (h *SearchHandler) SearchHandler(c *gin.Context) {
	logger := getLogger(c, h.logger)

	kind, err := search.ParseKind(c.Query("kind"))
	if err != nil {
		utils.JSONError(c, logger, http.StatusBadRequest, "Invalid kind", err.Error())
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = cast.ToIntE(raw); err != nil || limit < 0 {
			utils.JSONError(c, logger, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
	}

	filters := search.Filters{
		Kind:         kind,
		Query:        c.Query("q"),
		Skills:       listParam(c, "skills"),
		ProjectTypes: listParam(c, "projectTypes"),
		Languages:    listParam(c, "languages"),
		Availability: c.DefaultQuery("availability", search.AvailabilityAny),
		Limit:        limit,
	}

	results, err := h.searcher.Search(c.Request.Context(), filters)
	if errors.Is(err, search.ErrUnknownKind) {
		utils.JSONError(c, logger, http.StatusBadRequest, "Invalid kind", err.Error())
		return
	}
	if err != nil {
		logger.Error("Search failed", zap.Error(err))
		utils.JSONError(c, logger, http.StatusBadGateway, "search failed", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
