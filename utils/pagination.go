package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Page sizes mirror the two pagination profiles the API has always exposed:
// standard lists default to 10 (max 100), large catalog lists to 20 (max 200).
const (
	StandardPageSize    = 10
	StandardMaxPageSize = 100
	LargePageSize       = 20
	LargeMaxPageSize    = 200
)

type PageParams struct {
	Page     int
	PageSize int
}

func ClampPageSize(requested, fallback, max int) int {
	if requested < 1 {
		return fallback
	}
	if requested > max {
		return max
	}
	return requested
}

func TotalPages(count int64, pageSize int) int {
	if count == 0 {
		return 1
	}
	pages := int(count) / pageSize
	if int(count)%pageSize != 0 {
		pages++
	}
	return pages
}

// ParsePageParams reads page and page_size query params, clamping page_size to
// the profile's maximum.
func ParsePageParams(c *fiber.Ctx, defaultSize, maxSize int) PageParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := ClampPageSize(c.QueryInt("page_size", 0), defaultSize, maxSize)
	return PageParams{Page: page, PageSize: size}
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func pageLink(c *fiber.Ctx, p PageParams, page int) *string {
	link := fmt.Sprintf("%s%s?page=%d&page_size=%d", c.BaseURL(), c.Path(), page, p.PageSize)
	return &link
}

// PaginatedResponse builds the standard list envelope.
func PaginatedResponse(c *fiber.Ctx, p PageParams, count int64, results interface{}) fiber.Map {
	totalPages := TotalPages(count, p.PageSize)

	var next, previous *string
	if p.Page < totalPages {
		next = pageLink(c, p, p.Page+1)
	}
	if p.Page > 1 {
		previous = pageLink(c, p, p.Page-1)
	}

	return fiber.Map{
		"count":        count,
		"total_pages":  totalPages,
		"current_page": p.Page,
		"next":         next,
		"previous":     previous,
		"results":      results,
	}
}
