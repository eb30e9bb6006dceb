package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// DefaultLimit is the default number of rows a list endpoint returns
const DefaultLimit = 50

// MaxLimit is the maximum number of rows a list endpoint returns
const MaxLimit = 200

// GetLimit reads ?limit= clamped to [1, max]; def applies when absent or invalid
func GetLimit(c *fiber.Ctx, def, max int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// ListLimit is GetLimit with the package defaults
func ListLimit(c *fiber.Ctx) int {
	return GetLimit(c, DefaultLimit, MaxLimit)
}
