package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sorei9240/be-nc-news/internal/domain"
)

// Compile-time interface verification.
var _ ArticleRepository = (*PgArticleRepository)(nil)

// PgArticleRepository is a PostgreSQL implementation of ArticleRepository.
type PgArticleRepository struct {
	db DBTX
}

// NewPgArticleRepository creates a new PostgreSQL article repository.
func NewPgArticleRepository(db DBTX) *PgArticleRepository {
	return &PgArticleRepository{db: db}
}

// articleColumns are the listing columns. The body is deliberately absent
// from list results and present in single-article lookups.
const articleColumns = `
	a.article_id, a.title, a.topic, a.author, a.created_at,
	a.votes, a.article_img_url,
	COUNT(c.comment_id)::int AS comment_count`

// List retrieves one page of articles matching the filter, plus the total
// count of articles matching the topic predicate across all pages.
func (r *PgArticleRepository) List(ctx context.Context, filter ArticleFilter) ([]*domain.Article, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	whereClause := ""
	var args []interface{}
	if filter.Topic != "" {
		whereClause = "WHERE a.topic = $1"
		args = append(args, filter.Topic)
	}
	argIndex := len(args) + 1

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM articles a %s", whereClause)
	var totalCount int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	// filter.Validate checked the sort column against the allow-list, so the
	// ORDER BY interpolation below cannot carry client input verbatim.
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		%s
		GROUP BY a.article_id
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		articleColumns, whereClause, filter.orderClause(), argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*domain.Article, 0, filter.Limit)
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.CreatedAt,
			&a.Votes, &a.ArticleImgURL, &a.CommentCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating articles: %w", err)
	}

	if len(articles) == 0 {
		return nil, 0, domain.NewNotFoundError("articles", "No articles found")
	}

	return articles, totalCount, nil
}

// GetByID retrieves a single article with its body and live comment count.
func (r *PgArticleRepository) GetByID(ctx context.Context, articleID int) (*domain.Article, error) {
	query := `
		SELECT a.article_id, a.title, a.topic, a.author, a.body, a.created_at,
			a.votes, a.article_img_url,
			COUNT(c.comment_id)::int AS comment_count
		FROM articles a
		LEFT JOIN comments c ON c.article_id = a.article_id
		WHERE a.article_id = $1
		GROUP BY a.article_id`

	var a domain.Article
	err := r.db.QueryRow(ctx, query, articleID).Scan(
		&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt,
		&a.Votes, &a.ArticleImgURL, &a.CommentCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", "Not found")
		}
		if isInvalidTextRepresentation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to get article by ID: %w", err)
	}

	return &a, nil
}

// Insert creates a new article. The image URL falls back to the site
// default when the client omits it.
func (r *PgArticleRepository) Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
	if article.ArticleImgURL == "" {
		article.ArticleImgURL = domain.DefaultArticleImgURL
	}

	query := `
		INSERT INTO articles (author, title, body, topic, article_img_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url`

	var a domain.Article
	err := r.db.QueryRow(ctx, query,
		article.Author,
		article.Title,
		article.Body,
		article.Topic,
		article.ArticleImgURL,
	).Scan(
		&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt,
		&a.Votes, &a.ArticleImgURL,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				// The author and topic constraints share one client-facing
				// message; anything else is an unexpected schema change and
				// falls through to the generic path.
				switch pgErr.ConstraintName {
				case constraintArticlesAuthor, constraintArticlesTopic:
					return nil, domain.NewReferenceError(pgErr.ConstraintName, "Username or topic not found")
				}
			case pgNotNullViolation:
				return nil, domain.ErrMissingFields
			}
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	// A fresh article has no comments yet.
	a.CommentCount = 0

	return &a, nil
}

// UpdateVotes applies a signed vote delta atomically and returns the
// updated article.
func (r *PgArticleRepository) UpdateVotes(ctx context.Context, articleID, delta int) (*domain.Article, error) {
	query := `
		UPDATE articles
		SET votes = votes + $1
		WHERE article_id = $2
		RETURNING article_id, title, topic, author, body, created_at, votes, article_img_url`

	var a domain.Article
	err := r.db.QueryRow(ctx, query, delta, articleID).Scan(
		&a.ArticleID, &a.Title, &a.Topic, &a.Author, &a.Body, &a.CreatedAt,
		&a.Votes, &a.ArticleImgURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("article", "Not found")
		}
		if isInvalidTextRepresentation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to update article votes: %w", err)
	}

	return &a, nil
}
