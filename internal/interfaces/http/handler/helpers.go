package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/domain/shared"
)

// parseFilter builds a repository filter from standard pagination and
// sorting query parameters.
func parseFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 {
		if pageSize > 100 {
			pageSize = 100
		}
		filter.PageSize = pageSize
	}
	if orderBy := c.Query("sort_by"); orderBy != "" {
		filter.OrderBy = orderBy
	}
	if dir := c.Query("sort_dir"); dir == "asc" || dir == "desc" {
		filter.OrderDir = dir
	}
	if search := c.Query("search"); search != "" {
		filter.Search = search
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	return filter
}
