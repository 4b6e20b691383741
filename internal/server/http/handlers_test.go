package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sorei9240/be-nc-news/internal/domain"
	"github.com/sorei9240/be-nc-news/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockTopicRepo implements repository.TopicRepository for handler tests.
type mockTopicRepo struct {
	listFn func(ctx context.Context) ([]*domain.Topic, error)
}

func (m *mockTopicRepo) List(ctx context.Context) ([]*domain.Topic, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*domain.Topic{}, nil
}

// mockArticleRepo implements repository.ArticleRepository for handler tests.
type mockArticleRepo struct {
	listFn        func(ctx context.Context, filter repository.ArticleFilter) ([]*domain.Article, int, error)
	getFn         func(ctx context.Context, articleID int) (*domain.Article, error)
	insertFn      func(ctx context.Context, article domain.NewArticle) (*domain.Article, error)
	updateVotesFn func(ctx context.Context, articleID, delta int) (*domain.Article, error)
}

func (m *mockArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*domain.Article, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, domain.NewNotFoundError("articles", "No articles found")
}

func (m *mockArticleRepo) GetByID(ctx context.Context, articleID int) (*domain.Article, error) {
	if m.getFn != nil {
		return m.getFn(ctx, articleID)
	}
	return nil, domain.NewNotFoundError("article", "Not found")
}

func (m *mockArticleRepo) Insert(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, article)
	}
	return nil, errors.New("not implemented")
}

func (m *mockArticleRepo) UpdateVotes(ctx context.Context, articleID, delta int) (*domain.Article, error) {
	if m.updateVotesFn != nil {
		return m.updateVotesFn(ctx, articleID, delta)
	}
	return nil, domain.NewNotFoundError("article", "Not found")
}

// mockCommentRepo implements repository.CommentRepository for handler tests.
type mockCommentRepo struct {
	listFn        func(ctx context.Context, articleID int) ([]*domain.Comment, error)
	insertFn      func(ctx context.Context, comment domain.NewComment) (*domain.Comment, error)
	updateVotesFn func(ctx context.Context, commentID, delta int) (*domain.Comment, error)
	deleteFn      func(ctx context.Context, commentID int) error
}

func (m *mockCommentRepo) ListByArticle(ctx context.Context, articleID int) ([]*domain.Comment, error) {
	if m.listFn != nil {
		return m.listFn(ctx, articleID)
	}
	return []*domain.Comment{}, nil
}

func (m *mockCommentRepo) Insert(ctx context.Context, comment domain.NewComment) (*domain.Comment, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, comment)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCommentRepo) UpdateVotes(ctx context.Context, commentID, delta int) (*domain.Comment, error) {
	if m.updateVotesFn != nil {
		return m.updateVotesFn(ctx, commentID, delta)
	}
	return nil, domain.NewNotFoundError("comment", "Comment not found")
}

func (m *mockCommentRepo) Delete(ctx context.Context, commentID int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return domain.NewNotFoundError("comment", "Comment not found")
}

// mockUserRepo implements repository.UserRepository for handler tests.
type mockUserRepo struct {
	listFn func(ctx context.Context) ([]*domain.User, error)
	getFn  func(ctx context.Context, username string) (*domain.User, error)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []*domain.User{}, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return nil, domain.NewNotFoundError("user", "User not found")
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestServer creates a Server configured for testing with mocked repositories.
func newTestServer(
	topicRepo repository.TopicRepository,
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *Server {
	s := &Server{
		topicRepo:   topicRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		logger:      zerolog.Nop(),
	}
	s.router = s.buildRouter()
	return s
}

// serveHTTP dispatches a request through the test server's router.
func serveHTTP(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, r)
	return rr
}

// decodeJSON decodes a JSON response body into the given target.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// expectErrorMsg asserts the {"msg": ...} envelope carries the given message.
func expectErrorMsg(t *testing.T, rr *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp map[string]string
	decodeJSON(t, rr, &resp)
	if resp["msg"] != want {
		t.Errorf("expected msg %q, got %q", want, resp["msg"])
	}
}

func testArticle() *domain.Article {
	return &domain.Article{
		ArticleID:     1,
		Title:         "Living in the shadow of a great man",
		Topic:         "mitch",
		Author:        "butter_bridge",
		Body:          "I find this existence challenging",
		CreatedAt:     time.Date(2020, 7, 9, 20, 11, 0, 0, time.UTC),
		Votes:         100,
		ArticleImgURL: domain.DefaultArticleImgURL,
		CommentCount:  11,
	}
}

func testComment() *domain.Comment {
	return &domain.Comment{
		CommentID: 1,
		Body:      "Oh, I've got compassion running out of my nose, pal!",
		Votes:     16,
		Author:    "butter_bridge",
		ArticleID: 9,
		CreatedAt: time.Date(2020, 4, 6, 12, 17, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// Tests: GET /api
// ---------------------------------------------------------------------------

func TestGetEndpoints(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp struct {
		Endpoints map[string]json.RawMessage `json:"endpoints"`
	}
	decodeJSON(t, rr, &resp)
	if _, ok := resp.Endpoints["GET /api/topics"]; !ok {
		t.Error("expected endpoints document to describe GET /api/topics")
	}
	if _, ok := resp.Endpoints["DELETE /api/comments/:comment_id"]; !ok {
		t.Error("expected endpoints document to describe DELETE /api/comments/:comment_id")
	}
}

// ---------------------------------------------------------------------------
// Tests: GET /api/topics
// ---------------------------------------------------------------------------

func TestGetTopics(t *testing.T) {
	topicRepo := &mockTopicRepo{
		listFn: func(_ context.Context) ([]*domain.Topic, error) {
			return []*domain.Topic{
				{Slug: "mitch", Description: "The man, the Mitch, the legend"},
				{Slug: "cats", Description: "Not dogs"},
			}, nil
		},
	}
	srv := newTestServer(topicRepo, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp topicsEnvelope
	decodeJSON(t, rr, &resp)
	if len(resp.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(resp.Topics))
	}
	if resp.Topics[0].Slug != "mitch" {
		t.Errorf("expected first slug mitch, got %s", resp.Topics[0].Slug)
	}
}

func TestGetTopics_RepoError(t *testing.T) {
	topicRepo := &mockTopicRepo{
		listFn: func(_ context.Context) ([]*domain.Topic, error) {
			return nil, errors.New("connection reset")
		},
	}
	srv := newTestServer(topicRepo, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/topics", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Server error")
}

// ---------------------------------------------------------------------------
// Tests: GET /api/articles
// ---------------------------------------------------------------------------

func TestGetArticles(t *testing.T) {
	var capturedFilter repository.ArticleFilter
	articleRepo := &mockArticleRepo{
		listFn: func(_ context.Context, filter repository.ArticleFilter) ([]*domain.Article, int, error) {
			capturedFilter = filter
			return []*domain.Article{testArticle()}, 13, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles?sort_by=votes&order=asc&topic=mitch&limit=5&p=2", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if capturedFilter.SortBy != "votes" || capturedFilter.Order != "asc" ||
		capturedFilter.Topic != "mitch" || capturedFilter.Limit != 5 || capturedFilter.Page != 2 {
		t.Errorf("query params not passed through: %+v", capturedFilter)
	}

	var resp articlesEnvelope
	decodeJSON(t, rr, &resp)
	if resp.TotalCount != 13 {
		t.Errorf("expected totalCount 13, got %d", resp.TotalCount)
	}
	if len(resp.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(resp.Articles))
	}
	if resp.Articles[0].CommentCount != 11 {
		t.Errorf("expected comment_count 11, got %d", resp.Articles[0].CommentCount)
	}
}

func TestGetArticles_ListingOmitsBody(t *testing.T) {
	articleRepo := &mockArticleRepo{
		listFn: func(_ context.Context, _ repository.ArticleFilter) ([]*domain.Article, int, error) {
			return []*domain.Article{testArticle()}, 1, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	rr := serveHTTP(srv, req)

	var resp struct {
		Articles []map[string]json.RawMessage `json:"articles"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(resp.Articles))
	}
	if _, ok := resp.Articles[0]["body"]; ok {
		t.Error("article listing must not include the body")
	}
}

func TestGetArticles_InvalidSortBy(t *testing.T) {
	articleRepo := &mockArticleRepo{
		listFn: func(_ context.Context, filter repository.ArticleFilter) ([]*domain.Article, int, error) {
			if err := filter.Validate(); err != nil {
				return nil, 0, err
			}
			return []*domain.Article{testArticle()}, 1, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles?sort_by=banana", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid sort_by query")
}

func TestGetArticles_InvalidLimit(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles?limit=banana", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

func TestGetArticles_NoneFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles?topic=paper", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "No articles found")
}

// ---------------------------------------------------------------------------
// Tests: GET /api/articles/{articleID}
// ---------------------------------------------------------------------------

func TestGetArticleByID(t *testing.T) {
	articleRepo := &mockArticleRepo{
		getFn: func(_ context.Context, articleID int) (*domain.Article, error) {
			if articleID != 1 {
				return nil, domain.NewNotFoundError("article", "Not found")
			}
			return testArticle(), nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/1", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp articleEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Article.ArticleID != 1 {
		t.Errorf("expected article_id 1, got %d", resp.Article.ArticleID)
	}
	if resp.Article.Body == "" {
		t.Error("single article must include the body")
	}
	if resp.Article.CommentCount != 11 {
		t.Errorf("expected comment_count 11, got %d", resp.Article.CommentCount)
	}
}

func TestGetArticleByID_NotFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/999", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Not found")
}

func TestGetArticleByID_InvalidID(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/not-a-number", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

// ---------------------------------------------------------------------------
// Tests: POST /api/articles
// ---------------------------------------------------------------------------

func TestPostArticle(t *testing.T) {
	var inserted domain.NewArticle
	articleRepo := &mockArticleRepo{
		insertFn: func(_ context.Context, article domain.NewArticle) (*domain.Article, error) {
			inserted = article
			a := testArticle()
			a.ArticleID = 14
			a.Title = article.Title
			a.Votes = 0
			a.CommentCount = 0
			return a, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	body := `{"author":"butter_bridge","title":"Seven legs","body":"Spiders are great","topic":"mitch"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if inserted.Author != "butter_bridge" || inserted.Title != "Seven legs" {
		t.Errorf("request body not passed through: %+v", inserted)
	}

	var resp articleEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Article.CommentCount != 0 {
		t.Errorf("expected comment_count 0 on a fresh article, got %d", resp.Article.CommentCount)
	}
}

func TestPostArticle_MissingFields(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	body := `{"author":"butter_bridge","topic":"mitch"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Missing required fields")
}

func TestPostArticle_UnknownAuthorOrTopic(t *testing.T) {
	articleRepo := &mockArticleRepo{
		insertFn: func(_ context.Context, _ domain.NewArticle) (*domain.Article, error) {
			return nil, domain.NewReferenceError("articles_author_fkey", "Username or topic not found")
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	body := `{"author":"nobody","title":"T","body":"B","topic":"mitch"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Username or topic not found")
}

// ---------------------------------------------------------------------------
// Tests: PATCH /api/articles/{articleID}
// ---------------------------------------------------------------------------

func TestPatchArticleVotes(t *testing.T) {
	var gotDelta int
	articleRepo := &mockArticleRepo{
		updateVotesFn: func(_ context.Context, articleID, delta int) (*domain.Article, error) {
			gotDelta = delta
			a := testArticle()
			a.Votes += delta
			return a, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/articles/1", bytes.NewBufferString(`{"inc_votes":-100}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotDelta != -100 {
		t.Errorf("expected delta -100, got %d", gotDelta)
	}

	var resp struct {
		Article map[string]json.RawMessage `json:"article"`
	}
	decodeJSON(t, rr, &resp)
	if _, ok := resp.Article["comment_count"]; ok {
		t.Error("vote-patch response must not include comment_count")
	}
	if _, ok := resp.Article["body"]; !ok {
		t.Error("vote-patch response must include the body")
	}
}

func TestPatchArticleVotes_MissingIncVotes(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/articles/1", bytes.NewBufferString(`{}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

func TestPatchArticleVotes_NonNumericIncVotes(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/articles/1", bytes.NewBufferString(`{"inc_votes":"banana"}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

// ---------------------------------------------------------------------------
// Tests: GET /api/articles/{articleID}/comments
// ---------------------------------------------------------------------------

func TestGetCommentsByArticle(t *testing.T) {
	articleRepo := &mockArticleRepo{
		getFn: func(_ context.Context, _ int) (*domain.Article, error) {
			return testArticle(), nil
		},
	}
	commentRepo := &mockCommentRepo{
		listFn: func(_ context.Context, articleID int) ([]*domain.Comment, error) {
			c := testComment()
			c.ArticleID = articleID
			return []*domain.Comment{c}, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, commentRepo, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/9/comments", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp commentsEnvelope
	decodeJSON(t, rr, &resp)
	if len(resp.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(resp.Comments))
	}
	if resp.Comments[0].ArticleID != 9 {
		t.Errorf("expected article_id 9, got %d", resp.Comments[0].ArticleID)
	}
}

func TestGetCommentsByArticle_EmptyList(t *testing.T) {
	articleRepo := &mockArticleRepo{
		getFn: func(_ context.Context, _ int) (*domain.Article, error) {
			return testArticle(), nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, articleRepo, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/2/comments", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for an article with no comments, got %d", rr.Code)
	}

	var resp commentsEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Comments == nil || len(resp.Comments) != 0 {
		t.Errorf("expected empty comments array, got %v", resp.Comments)
	}
}

func TestGetCommentsByArticle_ArticleNotFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/articles/999/comments", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Not found")
}

// ---------------------------------------------------------------------------
// Tests: POST /api/articles/{articleID}/comments
// ---------------------------------------------------------------------------

func TestPostComment(t *testing.T) {
	var inserted domain.NewComment
	commentRepo := &mockCommentRepo{
		insertFn: func(_ context.Context, comment domain.NewComment) (*domain.Comment, error) {
			inserted = comment
			return &domain.Comment{
				CommentID: 19,
				Body:      comment.Body,
				Votes:     0,
				Author:    comment.Author,
				ArticleID: comment.ArticleID,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, commentRepo, &mockUserRepo{})

	body := `{"username":"butter_bridge","body":"Great article!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles/1/comments", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if inserted.ArticleID != 1 || inserted.Author != "butter_bridge" {
		t.Errorf("comment fields not passed through: %+v", inserted)
	}

	var resp commentEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Comment.Votes != 0 {
		t.Errorf("expected fresh comment votes 0, got %d", resp.Comment.Votes)
	}
}

func TestPostComment_MissingBody(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/articles/1/comments", bytes.NewBufferString(`{"username":"butter_bridge"}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Missing required fields")
}

func TestPostComment_UnknownUsername(t *testing.T) {
	commentRepo := &mockCommentRepo{
		insertFn: func(_ context.Context, _ domain.NewComment) (*domain.Comment, error) {
			return nil, domain.NewReferenceError("comments_author_fkey", "Invalid username")
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, commentRepo, &mockUserRepo{})

	body := `{"username":"nobody","body":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles/1/comments", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid username")
}

func TestPostComment_InvalidArticleID(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	body := `{"username":"butter_bridge","body":"Hello"}`
	req := httptest.NewRequest(http.MethodPost, "/api/articles/banana/comments", bytes.NewBufferString(body))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

// ---------------------------------------------------------------------------
// Tests: PATCH /api/comments/{commentID}
// ---------------------------------------------------------------------------

func TestPatchCommentVotes(t *testing.T) {
	commentRepo := &mockCommentRepo{
		updateVotesFn: func(_ context.Context, commentID, delta int) (*domain.Comment, error) {
			c := testComment()
			c.CommentID = commentID
			c.Votes += delta
			return c, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, commentRepo, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/comments/1", bytes.NewBufferString(`{"inc_votes":1}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp commentEnvelope
	decodeJSON(t, rr, &resp)
	if resp.Comment.Votes != 17 {
		t.Errorf("expected votes 17, got %d", resp.Comment.Votes)
	}
}

func TestPatchCommentVotes_NotFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/comments/999", bytes.NewBufferString(`{"inc_votes":1}`))
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Comment not found")
}

// ---------------------------------------------------------------------------
// Tests: DELETE /api/comments/{commentID}
// ---------------------------------------------------------------------------

func TestDeleteComment(t *testing.T) {
	var deletedID int
	commentRepo := &mockCommentRepo{
		deleteFn: func(_ context.Context, commentID int) error {
			deletedID = commentID
			return nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, commentRepo, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/1", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}
	if deletedID != 1 {
		t.Errorf("expected comment 1 deleted, got %d", deletedID)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rr.Body.String())
	}
}

func TestDeleteComment_NotFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/999", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Comment not found")
}

func TestDeleteComment_InvalidID(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/banana", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "Invalid Request")
}

// ---------------------------------------------------------------------------
// Tests: users
// ---------------------------------------------------------------------------

func TestGetUsers(t *testing.T) {
	userRepo := &mockUserRepo{
		listFn: func(_ context.Context) ([]*domain.User, error) {
			return []*domain.User{
				{Username: "butter_bridge", Name: "jonny", AvatarURL: "https://example.com/a.jpg"},
			}, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, userRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp usersEnvelope
	decodeJSON(t, rr, &resp)
	if len(resp.Users) != 1 || resp.Users[0].Username != "butter_bridge" {
		t.Errorf("unexpected users payload: %+v", resp.Users)
	}
}

func TestGetUserByUsername(t *testing.T) {
	userRepo := &mockUserRepo{
		getFn: func(_ context.Context, username string) (*domain.User, error) {
			if username != "butter_bridge" {
				return nil, domain.NewNotFoundError("user", "User not found")
			}
			return &domain.User{Username: "butter_bridge", Name: "jonny"}, nil
		},
	}
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, userRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/users/butter_bridge", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp userEnvelope
	decodeJSON(t, rr, &resp)
	if resp.User.Name != "jonny" {
		t.Errorf("expected name jonny, got %s", resp.User.Name)
	}
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	srv := newTestServer(&mockTopicRepo{}, &mockArticleRepo{}, &mockCommentRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/nobody", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	expectErrorMsg(t, rr, "User not found")
}

// ---------------------------------------------------------------------------
// Tests: write-path logging
// ---------------------------------------------------------------------------

// newLoggingTestServer is newTestServer with a capturing logger instead of Nop.
func newLoggingTestServer(
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	logOutput *bytes.Buffer,
) *Server {
	s := &Server{
		topicRepo:   &mockTopicRepo{},
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		userRepo:    &mockUserRepo{},
		logger:      zerolog.New(logOutput),
	}
	s.router = s.buildRouter()
	return s
}

// findLogEntry scans captured log lines for the entry with the given message.
// The request-log middleware writes to the same logger, so the buffer holds
// more than one line.
func findLogEntry(t *testing.T, logOutput *bytes.Buffer, message string) map[string]interface{} {
	t.Helper()
	for _, line := range bytes.Split(logOutput.Bytes(), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("failed to decode log line %q: %v", line, err)
		}
		if entry["message"] == message {
			return entry
		}
	}
	t.Fatalf("no log entry with message %q", message)
	return nil
}

func TestPostArticle_LogsArticleID(t *testing.T) {
	articles := &mockArticleRepo{
		insertFn: func(ctx context.Context, article domain.NewArticle) (*domain.Article, error) {
			return testArticle(), nil
		},
	}
	var logOutput bytes.Buffer
	srv := newLoggingTestServer(articles, &mockCommentRepo{}, &logOutput)

	body := bytes.NewBufferString(`{"author":"butter_bridge","title":"t","body":"b","topic":"mitch"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/articles", body)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	entry := findLogEntry(t, &logOutput, "article created")
	if entry["article_id"] != float64(1) {
		t.Errorf("expected article_id 1 in log entry, got %v", entry["article_id"])
	}
	if entry["author"] != "butter_bridge" {
		t.Errorf("expected author butter_bridge in log entry, got %v", entry["author"])
	}
}

func TestDeleteComment_LogsCommentID(t *testing.T) {
	comments := &mockCommentRepo{
		deleteFn: func(ctx context.Context, commentID int) error {
			return nil
		},
	}
	var logOutput bytes.Buffer
	srv := newLoggingTestServer(&mockArticleRepo{}, comments, &logOutput)

	req := httptest.NewRequest(http.MethodDelete, "/api/comments/5", nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rr.Code)
	}

	entry := findLogEntry(t, &logOutput, "comment deleted")
	if entry["comment_id"] != float64(5) {
		t.Errorf("expected comment_id 5 in log entry, got %v", entry["comment_id"])
	}
}
