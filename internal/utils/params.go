package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/pagination"
)

// GetUUIDParam parses the named path parameter as a UUID.
func GetUUIDParam(ctx *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Field(name, "Must be a valid UUID")
	}
	return id, nil
}

// GetPageRequest reads the zero-indexed page and size query parameters. Omitting size
// returns every row. Size is capped at pagination.MaxSize and page*size must fit in an int.
func GetPageRequest(ctx *gin.Context) (pagination.Request, error) {
	fields := map[string]string{}

	page, ok := nonNegativeQuery(ctx, "page")
	if !ok {
		fields["page"] = "Must be a non-negative integer"
	}
	size, ok := nonNegativeQuery(ctx, "size")
	switch {
	case !ok:
		fields["size"] = "Must be a non-negative integer"
	case size > pagination.MaxSize:
		fields["size"] = fmt.Sprintf("Must not exceed %d", pagination.MaxSize)
	case size > 0 && page > math.MaxInt/size:
		fields["page"] = "Page is out of range"
	}

	if len(fields) > 0 {
		return pagination.Request{}, apperror.Validation("Invalid pagination parameters", fields)
	}
	return pagination.Request{Page: page, Size: size}, nil
}

func nonNegativeQuery(ctx *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return 0, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
