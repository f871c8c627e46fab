// Package pagination parses page/size/sortBy/sortDir query parameters and
// builds the page envelope returned by list endpoints.
package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/RAAS/internal/pkg/apperror"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request is a validated page request. Page is zero-based.
type Request struct {
	Page    int
	Size    int
	SortBy  string // column name, already resolved through the whitelist
	SortDir string // "asc" or "desc"
}

// SortColumns maps API sort keys to database columns.
type SortColumns map[string]string

// FromQuery reads page, size, sortBy and sortDir. defaultSort must be a key of columns.
func FromQuery(c *fiber.Ctx, columns SortColumns, defaultSort string) (Request, error) {
	req := Request{Page: 0, Size: DefaultSize, SortDir: "asc"}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 0 {
			return req, apperror.Validation("page", "page must be a non-negative integer")
		}
		req.Page = page
	}

	if raw := c.Query("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return req, apperror.Validation("size", "size must be a positive integer")
		}
		if size > MaxSize {
			size = MaxSize
		}
		req.Size = size
	}

	sortKey := c.Query("sortBy", defaultSort)
	column, ok := columns[sortKey]
	if !ok {
		return req, apperror.Validation("sortBy", "cannot sort by %q", sortKey)
	}
	req.SortBy = column

	switch strings.ToLower(c.Query("sortDir", "asc")) {
	case "asc":
		req.SortDir = "asc"
	case "desc":
		req.SortDir = "desc"
	default:
		return req, apperror.Validation("sortDir", "sortDir must be asc or desc")
	}

	return req, nil
}

// Offset returns the row offset of the requested page.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Apply adds ORDER BY, OFFSET and LIMIT to a query.
func (r Request) Apply(db *gorm.DB) *gorm.DB {
	if r.SortBy != "" {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: r.SortBy},
			Desc:   r.SortDir == "desc",
		})
	}
	if r.Size > 0 {
		db = db.Offset(r.Offset()).Limit(r.Size)
	}
	return db
}

func (r Request) String() string {
	return fmt.Sprintf("page=%d size=%d sort=%s %s", r.Page, r.Size, r.SortBy, r.SortDir)
}

// Page is the JSON envelope of a list response.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage builds the envelope for one page of content.
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page >= totalPages-1,
	}
}

// Map converts the content of a page while keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		out = append(out, fn(item))
	}
	return Page[U]{
		Content:       out,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
