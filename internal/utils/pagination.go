package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds offset/limit listing parameters.
type Pagination struct {
	Offset int
	Limit  int
}

// ParsePagination reads offset and limit query params. Limits above the
// configured ceiling are rejected the same way admin checks are: forbidden.
func ParsePagination(c *fiber.Ctx, ceiling int) (Pagination, error) {
	offset := parseInt(c.Query("offset", "0"), 0)
	limit := parseInt(c.Query("limit", "20"), 20)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > ceiling {
		return Pagination{}, fiber.NewError(fiber.StatusForbidden, "forbidden")
	}

	return Pagination{Offset: offset, Limit: limit}, nil
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
