package repository

import (
	"strings"

	"github.com/sorei9240/be-nc-news/internal/domain"
)

// Pagination defaults applied when the client omits limit or p.
const (
	DefaultArticleLimit = 10
	DefaultArticlePage  = 1
)

// articleSortColumns is the allow-list of columns the article listing may
// be ordered by. The validated name is interpolated into the ORDER BY
// clause, so membership here is what keeps that interpolation safe.
var articleSortColumns = map[string]bool{
	"article_id":      true,
	"title":           true,
	"topic":           true,
	"author":          true,
	"created_at":      true,
	"votes":           true,
	"article_img_url": true,
	"comment_count":   true,
}

// ArticleFilter selects, orders, and paginates the article listing.
// Zero values mean "use the default": sort_by created_at, order DESC,
// limit 10, page 1, no topic predicate.
type ArticleFilter struct {
	SortBy string
	Order  string
	Topic  string
	Limit  int
	Page   int
}

// Validate checks the filter against the sortable-column allow-list and
// normalizes defaults in place. It returns a domain.ValidationError for
// any value that cannot be honored.
func (f *ArticleFilter) Validate() error {
	if f.SortBy == "" {
		f.SortBy = "created_at"
	}
	if !articleSortColumns[f.SortBy] {
		return domain.NewValidationError("sort_by", "Invalid sort_by query")
	}

	if f.Order == "" {
		f.Order = "DESC"
	}
	f.Order = strings.ToUpper(f.Order)
	if f.Order != "ASC" && f.Order != "DESC" {
		return domain.NewValidationError("order", "Invalid order query")
	}

	if f.Limit == 0 {
		f.Limit = DefaultArticleLimit
	}
	if f.Limit < 0 {
		return domain.NewValidationError("limit", "Invalid limit query")
	}

	if f.Page == 0 {
		f.Page = DefaultArticlePage
	}
	if f.Page < 0 {
		return domain.NewValidationError("p", "Invalid page query")
	}

	return nil
}

// Offset converts the 1-based page into a row offset.
func (f *ArticleFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// orderClause returns the ORDER BY expression for the validated filter.
// comment_count is an aggregate alias in the listing query; every other
// column lives on the articles table.
func (f *ArticleFilter) orderClause() string {
	col := f.SortBy
	if col != "comment_count" {
		col = "a." + col
	}
	return col + " " + f.Order
}
