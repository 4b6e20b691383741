package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes translated into domain errors at this layer.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgInvalidTextRepresentation = "22P02"
	pgNotNullViolation          = "23502"
	pgForeignKeyViolation       = "23503"
)

// Foreign-key constraint names from the schema, used to specialize the
// client-facing message on 23503 errors.
const (
	constraintArticlesAuthor  = "articles_author_fkey"
	constraintArticlesTopic   = "articles_topic_fkey"
	constraintCommentsAuthor  = "comments_author_fkey"
	constraintCommentsArticle = "comments_article_id_fkey"
)

// isInvalidTextRepresentation reports whether err is the driver's malformed
// literal error (SQLSTATE 22P02). Handlers reject malformed identifiers
// before any query runs, so this only fires on a type mismatch that slipped
// past the boundary.
func isInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}
