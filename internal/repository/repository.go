// Package repository provides data access interfaces and implementations
// for the NC News API.
//
// # Overview
//
// This package defines repository interfaces and their PostgreSQL
// implementations following the repository pattern to abstract data
// persistence from the HTTP layer.
//
// # Repository Interfaces
//
//   - TopicRepository: Read access to topics
//   - ArticleRepository: Article listing, lookup, creation, and vote updates
//   - CommentRepository: Comment listing, creation, vote updates, and deletion
//   - UserRepository: Read access to users
//
// # Thread Safety
//
// All repository implementations are safe for concurrent use by multiple
// goroutines. The underlying pgxpool handles connection pooling and
// synchronization.
//
// # Error Handling
//
// All methods return domain errors from the domain package. Database errors
// are wrapped with context using fmt.Errorf with the %w verb. Common errors:
//
//   - domain.ErrNotFound: No row matched a well-formed identifier or filter
//   - domain.ErrInvalidInput: Malformed identifier or query parameter
//   - domain.ErrMissingFields: Not-null constraint violation
//   - domain.ErrInvalidReference: Foreign-key violation
package repository

import (
	"context"

	"github.com/sorei9240/be-nc-news/internal/database"
	"github.com/sorei9240/be-nc-news/internal/domain"
)

// DBTX is the database interface supporting both pool and transaction
// contexts. Repositories accept it in their constructors, which allows
// direct pool usage, transactional usage with a pgx.Tx, and mock pools
// in tests.
type DBTX = database.DBTX

// TopicRepository provides read access to topics.
type TopicRepository interface {
	// List returns all topics.
	List(ctx context.Context) ([]*domain.Topic, error)
}

// ArticleRepository manages article persistence.
type ArticleRepository interface {
	// List returns the page of articles selected by filter together with the
	// total count of articles matching the filter's topic predicate.
	List(ctx context.Context, filter ArticleFilter) ([]*domain.Article, int, error)

	// GetByID returns a single article with its live comment count.
	GetByID(ctx context.Context, articleID int) (*domain.Article, error)

	// Insert creates a new article and returns the created row.
	Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error)

	// UpdateVotes atomically applies a signed vote delta and returns the
	// updated row.
	UpdateVotes(ctx context.Context, articleID, delta int) (*domain.Article, error)
}

// CommentRepository manages comment persistence.
type CommentRepository interface {
	// ListByArticle returns all comments for an article, newest first.
	// An article with no comments yields an empty slice, not an error.
	ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error)

	// Insert creates a new comment and returns the created row.
	Insert(ctx context.Context, comment domain.NewComment) (*domain.Comment, error)

	// UpdateVotes atomically applies a signed vote delta and returns the
	// updated row.
	UpdateVotes(ctx context.Context, commentID, delta int) (*domain.Comment, error)

	// Delete removes a comment by id.
	Delete(ctx context.Context, commentID int) error
}

// UserRepository provides read access to users.
type UserRepository interface {
	// List returns all users.
	List(ctx context.Context) ([]*domain.User, error)

	// GetByUsername returns a single user.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
