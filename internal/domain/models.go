// Package domain defines the core entities and error taxonomy for the NC News API.
package domain

import "time"

// DefaultArticleImgURL is used when an article is created without an image URL.
const DefaultArticleImgURL = "https://images.pexels.com/photos/97050/pexels-photo-97050.jpeg?w=700&h=700"

// Topic is a category that articles belong to. Topics are seeded externally;
// this API exposes them read-only.
type Topic struct {
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// Article is a news article. CommentCount is derived at read time from the
// comments table and is never stored.
type Article struct {
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

// Comment is a user comment on an article.
type Comment struct {
	CommentID int       `json:"comment_id"`
	Body      string    `json:"body"`
	Votes     int       `json:"votes"`
	Author    string    `json:"author"`
	ArticleID int       `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a registered user. Users are seeded externally; this API exposes
// them read-only.
type User struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// NewArticle holds the fields required to create an article. ArticleImgURL
// falls back to DefaultArticleImgURL when empty.
type NewArticle struct {
	Author        string
	Title         string
	Body          string
	Topic         string
	ArticleImgURL string
}

// NewComment holds the fields required to create a comment on an article.
type NewComment struct {
	ArticleID int
	Author    string
	Body      string
}
