package api

import (
	"strconv"

	"peakform/trainer-hub/internal/repository"

	"github.com/gin-gonic/gin"
)

// parsePage reads the limit/skip query parameters, falling back to the
// endpoint's default limit. Non-positive or malformed values take defaults.
func parsePage(c *gin.Context, defaultLimit int64) repository.Page {
	page := repository.Page{Limit: defaultLimit, Skip: 0}

	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.ParseInt(raw, 10, 64); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	if raw := c.Query("skip"); raw != "" {
		if skip, err := strconv.ParseInt(raw, 10, 64); err == nil && skip >= 0 {
			page.Skip = skip
		}
	}
	return page
}

// pageMeta builds the pagination block of the response meta:
// page = floor(skip/limit), hasMore = skip+limit < total.
func pageMeta(page repository.Page, total int64) gin.H {
	return gin.H{
		"pageSize": page.Limit,
		"page":     page.Skip / page.Limit,
		"hasMore":  page.Skip+page.Limit < total,
		"total":    total,
	}
}
