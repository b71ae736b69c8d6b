package option

import (
	"time"

	"github.com/fieldline/fieldline/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option is a composable query modifier.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type optionFunc func(stmt *gorm.DB) *gorm.DB

func (f optionFunc) Apply(stmt *gorm.DB) *gorm.DB { return f(stmt) }

// ApplyPagination applies keyset pagination from an opaque page token.
// One extra row is fetched so callers can detect whether more pages exist.
func ApplyPagination(page pagination.Pagination) Option {
	return optionFunc(func(stmt *gorm.DB) *gorm.DB {
		pageSize := page.PageSize
		if pageSize <= 0 {
			pageSize = 10
		}
		if pageSize > 250 {
			pageSize = 250
		}

		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil && cursor.CreatedAt != "" && cursor.ID != "" {
				if createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt); parseErr == nil {
					stmt = stmt.Where(
						"(created_at, id) < (?, ?)",
						createdAt,
						cursor.ID,
					)
				}
			}
		}

		return stmt.Limit(pageSize + 1)
	})
}
