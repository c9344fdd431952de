package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// paginationParams reads page/limit query parameters with the API's
// defaults. Bad or non-positive values fall back to the defaults.
func paginationParams(c *gin.Context) (page, limit int) {
	page = defaultPage
	limit = defaultLimit

	if raw := c.Query("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p >= 1 {
			page = p
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l >= 1 {
			limit = l
		}
	}
	return page, limit
}

// totalPages derives the page count from a total row count.
func totalPages(totalResults int64, limit int) int64 {
	if totalResults == 0 {
		return 0
	}
	return (totalResults + int64(limit) - 1) / int64(limit)
}
