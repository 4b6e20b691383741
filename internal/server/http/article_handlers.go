package httpserver

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sorei9240/be-nc-news/internal/domain"
	"github.com/sorei9240/be-nc-news/internal/observability"
	"github.com/sorei9240/be-nc-news/internal/repository"
)

// postArticleRequest is the JSON request body for creating an article.
type postArticleRequest struct {
	Author        string `json:"author" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Body          string `json:"body" validate:"required"`
	Topic         string `json:"topic" validate:"required"`
	ArticleImgURL string `json:"article_img_url"`
}

// patchVotesRequest is the JSON request body for vote updates on articles
// and comments. A pointer distinguishes an absent inc_votes from zero.
type patchVotesRequest struct {
	IncVotes *int `json:"inc_votes" validate:"required"`
}

// getArticles handles GET /api/articles.
func (s *Server) getArticles(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	page, err := intQueryParam(r, "p")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	filter := repository.ArticleFilter{
		SortBy: r.URL.Query().Get("sort_by"),
		Order:  r.URL.Query().Get("order"),
		Topic:  r.URL.Query().Get("topic"),
		Limit:  limit,
		Page:   page,
	}

	articles, totalCount, err := s.articleRepo.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	listed := make([]listedArticle, len(articles))
	for i, a := range articles {
		listed[i] = toListedArticle(a)
	}

	writeJSON(w, http.StatusOK, articlesEnvelope{Articles: listed, TotalCount: totalCount})
}

// getArticleByID handles GET /api/articles/{articleID}.
func (s *Server) getArticleByID(w http.ResponseWriter, r *http.Request) {
	articleID, err := intURLParam(r, "articleID")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	article, err := s.articleRepo.GetByID(r.Context(), articleID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleEnvelope{Article: toFullArticle(article)})
}

// postArticle handles POST /api/articles.
func (s *Server) postArticle(w http.ResponseWriter, r *http.Request) {
	var req postArticleRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	article, err := s.articleRepo.Insert(r.Context(), domain.NewArticle{
		Author:        req.Author,
		Title:         req.Title,
		Body:          req.Body,
		Topic:         req.Topic,
		ArticleImgURL: req.ArticleImgURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordArticleCreated()
	}
	articleLogger := observability.WithArticleContext(s.logger, article.ArticleID)
	articleLogger.Info().
		Str("topic", article.Topic).
		Str("author", article.Author).
		Msg("article created")

	writeJSON(w, http.StatusCreated, articleEnvelope{Article: toFullArticle(article)})
}

// patchArticleVotes handles PATCH /api/articles/{articleID}.
func (s *Server) patchArticleVotes(w http.ResponseWriter, r *http.Request) {
	articleID, err := intURLParam(r, "articleID")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req patchVotesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if req.IncVotes == nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	article, err := s.articleRepo.UpdateVotes(r.Context(), articleID, *req.IncVotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordVotesApplied("article")
	}
	articleLogger := observability.WithArticleContext(s.logger, article.ArticleID)
	articleLogger.Debug().
		Int("inc_votes", *req.IncVotes).
		Int("votes", article.Votes).
		Msg("article votes updated")

	writeJSON(w, http.StatusOK, patchedArticleEnvelope{Article: toPatchedArticle(article)})
}

// getCommentsByArticle handles GET /api/articles/{articleID}/comments.
// The article existence check and the comment fetch run concurrently;
// a missing article is a 404 even though its comment list would be empty.
func (s *Server) getCommentsByArticle(w http.ResponseWriter, r *http.Request) {
	articleID, err := intURLParam(r, "articleID")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var comments []*domain.Comment
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		_, err := s.articleRepo.GetByID(ctx, articleID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.ListByArticle(ctx, articleID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentsEnvelope{Comments: comments})
}
