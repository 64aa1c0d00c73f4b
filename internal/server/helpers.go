package server

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"bloghub/internal/middleware"
	"bloghub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageParams holds parsed page/page_size query parameters.
type PageParams struct {
	Page     int
	PageSize int
}

// parsePageParams extracts page and page_size query parameters.
func parsePageParams(c *fiber.Ctx) PageParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return PageParams{Page: page, PageSize: pageSize}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// userID returns the authenticated user's id placed in locals by AuthRequired.
func userID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// totalPages computes the page count for a total at the given page size.
func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 1
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// pageLink rebuilds the request URL with the given page number, preserving
// the other query parameters.
func pageLink(c *fiber.Ctx, page int) string {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		// Keep whatever parsed; the link may lose a filter but stays valid.
		middleware.Logger.WarnContext(c.UserContext(), "failed to parse query string for page links",
			"query", string(c.Request().URI().QueryString()), "error", err)
	}
	values.Set("page", strconv.Itoa(page))
	return c.BaseURL() + c.Path() + "?" + values.Encode()
}

// pageLinks returns next/previous absolute URLs, nil when out of range.
func pageLinks(c *fiber.Ctx, page, pageSize int, total int64) (next, previous *string) {
	if int64(page*pageSize) < total {
		n := pageLink(c, page+1)
		next = &n
	}
	if page > 1 {
		p := pageLink(c, page-1)
		previous = &p
	}
	return next, previous
}

// parseDate accepts the YYYY-MM-DD format used by the date range filters.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, models.NewValidationError("Invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}
