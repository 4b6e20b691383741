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
var _ CommentRepository = (*PgCommentRepository)(nil)

// PgCommentRepository is a PostgreSQL implementation of CommentRepository.
type PgCommentRepository struct {
	db DBTX
}

// NewPgCommentRepository creates a new PostgreSQL comment repository.
func NewPgCommentRepository(db DBTX) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// ListByArticle retrieves all comments for an article, newest first.
// The caller is responsible for checking that the article exists; an
// existing article with no comments yields an empty slice.
func (r *PgCommentRepository) ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error) {
	query := `
		SELECT comment_id, body, votes, author, article_id, created_at
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, articleID)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.CommentID, &c.Body, &c.Votes, &c.Author, &c.ArticleID, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// Insert creates a new comment on an article.
func (r *PgCommentRepository) Insert(ctx context.Context, comment domain.NewComment) (*domain.Comment, error) {
	query := `
		INSERT INTO comments (article_id, author, body)
		VALUES ($1, $2, $3)
		RETURNING comment_id, body, votes, author, article_id, created_at`

	var c domain.Comment
	err := r.db.QueryRow(ctx, query,
		comment.ArticleID,
		comment.Author,
		comment.Body,
	).Scan(
		&c.CommentID, &c.Body, &c.Votes, &c.Author, &c.ArticleID, &c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgForeignKeyViolation:
				// An unknown author and an unknown article surface as the
				// same SQLSTATE; the constraint name tells them apart.
				switch pgErr.ConstraintName {
				case constraintCommentsAuthor:
					return nil, domain.NewReferenceError(pgErr.ConstraintName, "Invalid username")
				case constraintCommentsArticle:
					return nil, domain.NewNotFoundError("article", "Not found")
				}
			case pgNotNullViolation:
				return nil, domain.ErrMissingFields
			}
		}
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return &c, nil
}

// UpdateVotes applies a signed vote delta atomically and returns the
// updated comment.
func (r *PgCommentRepository) UpdateVotes(ctx context.Context, commentID, delta int) (*domain.Comment, error) {
	query := `
		UPDATE comments
		SET votes = votes + $1
		WHERE comment_id = $2
		RETURNING comment_id, body, votes, author, article_id, created_at`

	var c domain.Comment
	err := r.db.QueryRow(ctx, query, delta, commentID).Scan(
		&c.CommentID, &c.Body, &c.Votes, &c.Author, &c.ArticleID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("comment", "Comment not found")
		}
		if isInvalidTextRepresentation(err) {
			return nil, domain.ErrInvalidInput
		}
		return nil, fmt.Errorf("failed to update comment votes: %w", err)
	}

	return &c, nil
}

// Delete removes a comment by id.
func (r *PgCommentRepository) Delete(ctx context.Context, commentID int) error {
	query := `DELETE FROM comments WHERE comment_id = $1`

	result, err := r.db.Exec(ctx, query, commentID)
	if err != nil {
		if isInvalidTextRepresentation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("comment", "Comment not found")
	}

	return nil
}
