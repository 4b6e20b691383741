package httpserver

import (
	"net/http"

	"github.com/sorei9240/be-nc-news/internal/domain"
	"github.com/sorei9240/be-nc-news/internal/observability"
)

// postCommentRequest is the JSON request body for adding a comment.
type postCommentRequest struct {
	Username string `json:"username" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

// postComment handles POST /api/articles/{articleID}/comments.
func (s *Server) postComment(w http.ResponseWriter, r *http.Request) {
	articleID, err := intURLParam(r, "articleID")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	var req postCommentRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	comment, err := s.commentRepo.Insert(r.Context(), domain.NewComment{
		ArticleID: articleID,
		Author:    req.Username,
		Body:      req.Body,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordCommentCreated()
	}
	commentLogger := observability.WithCommentContext(s.logger, comment.CommentID)
	commentLogger.Info().
		Int("article_id", comment.ArticleID).
		Str("author", comment.Author).
		Msg("comment created")

	writeJSON(w, http.StatusCreated, commentEnvelope{Comment: comment})
}

// patchCommentVotes handles PATCH /api/comments/{commentID}.
func (s *Server) patchCommentVotes(w http.ResponseWriter, r *http.Request) {
	commentID, err := intURLParam(r, "commentID")
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

	comment, err := s.commentRepo.UpdateVotes(r.Context(), commentID, *req.IncVotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordVotesApplied("comment")
	}
	commentLogger := observability.WithCommentContext(s.logger, comment.CommentID)
	commentLogger.Debug().
		Int("inc_votes", *req.IncVotes).
		Int("votes", comment.Votes).
		Msg("comment votes updated")

	writeJSON(w, http.StatusOK, commentEnvelope{Comment: comment})
}

// deleteComment handles DELETE /api/comments/{commentID}.
func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := intURLParam(r, "commentID")
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.commentRepo.Delete(r.Context(), commentID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordCommentDeleted()
	}
	deleteLogger := observability.WithCommentContext(s.logger, commentID)
	deleteLogger.Info().Msg("comment deleted")

	w.WriteHeader(http.StatusNoContent)
}
