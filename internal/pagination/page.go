package pagination

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// MaxSize is the largest page size a client may request.
const MaxSize = 1000

// Request is a zero-indexed page request. A Size of 0 disables pagination.
type Request struct {
	Page int
	Size int
}

// Page is the envelope returned by every list endpoint.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
}

func (r Request) Enabled() bool {
	return r.Size > 0
}

// Offset returns Page*Size, saturating at math.MaxInt so a huge page lands past the last row.
func (r Request) Offset() int {
	if !r.Enabled() || r.Page <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// TotalPages returns ceil(total/size), or 0 when size is not positive.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	s := int64(size)
	return int((total + s - 1) / s)
}

func New[T any](items []T, total int64, req Request) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: req.Page,
		PageSize:    req.Size,
		TotalPages:  TotalPages(total, req.Size),
	}
}

// Scope applies LIMIT/OFFSET when the request paginates and leaves the query alone otherwise.
func Scope(req Request) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !req.Enabled() {
			return db
		}
		return db.Limit(req.Size).Offset(req.Offset())
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches term case-insensitively as a literal substring of any of the given columns.
// A blank term adds no condition.
func Search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}

		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		conds := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			conds = append(conds, "lower("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}

		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}
