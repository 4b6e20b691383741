package httpserver

import (
	"time"

	"github.com/sorei9240/be-nc-news/internal/domain"
)

// Response shapes differ per endpoint: article listings omit the body,
// vote-patch responses omit the comment count, and single-article lookups
// carry both. Dedicated types keep each contract explicit.

// listedArticle is one element of the article listing.
type listedArticle struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// fullArticle is a single-article response including the body.
type fullArticle struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
	CommentCount  int       `json:"comment_count"`
}

// patchedArticle is the vote-update response, which carries the body but
// no comment count.
type patchedArticle struct {
	ArticleID     int       `json:"article_id"`
	Title         string    `json:"title"`
	Topic         string    `json:"topic"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
	Votes         int       `json:"votes"`
	ArticleImgURL string    `json:"article_img_url"`
}

func toListedArticle(a *domain.Article) listedArticle {
	return listedArticle{
		ArticleID:     a.ArticleID,
		Title:         a.Title,
		Topic:         a.Topic,
		Author:        a.Author,
		CreatedAt:     a.CreatedAt,
		Votes:         a.Votes,
		ArticleImgURL: a.ArticleImgURL,
		CommentCount:  a.CommentCount,
	}
}

func toFullArticle(a *domain.Article) fullArticle {
	return fullArticle{
		ArticleID:     a.ArticleID,
		Title:         a.Title,
		Topic:         a.Topic,
		Author:        a.Author,
		Body:          a.Body,
		CreatedAt:     a.CreatedAt,
		Votes:         a.Votes,
		ArticleImgURL: a.ArticleImgURL,
		CommentCount:  a.CommentCount,
	}
}

func toPatchedArticle(a *domain.Article) patchedArticle {
	return patchedArticle{
		ArticleID:     a.ArticleID,
		Title:         a.Title,
		Topic:         a.Topic,
		Author:        a.Author,
		Body:          a.Body,
		CreatedAt:     a.CreatedAt,
		Votes:         a.Votes,
		ArticleImgURL: a.ArticleImgURL,
	}
}

// Envelope types. Every success response wraps its payload in a named key.

type topicsEnvelope struct {
	Topics []*domain.Topic `json:"topics"`
}

type articlesEnvelope struct {
	Articles   []listedArticle `json:"articles"`
	TotalCount int             `json:"totalCount"`
}

type articleEnvelope struct {
	Article fullArticle `json:"article"`
}

type patchedArticleEnvelope struct {
	Article patchedArticle `json:"article"`
}

type commentsEnvelope struct {
	Comments []*domain.Comment `json:"comments"`
}

type commentEnvelope struct {
	Comment *domain.Comment `json:"comment"`
}

type usersEnvelope struct {
	Users []*domain.User `json:"users"`
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

type errorEnvelope struct {
	Msg string `json:"msg"`
}
