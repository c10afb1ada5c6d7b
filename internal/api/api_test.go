package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/forum-tree-api/internal/api"
	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/config"
	"github.com/forum-tree-api/internal/mocks"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	aliceToken = "alice-token"
	bobToken   = "bob-token"
)

func setupTestRouter() (*gin.Engine, *mocks.MockUserService, *mocks.MockExportService) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080", RequestTimeout: 5 * time.Second},
		Auth: config.AuthConfig{
			Secret: "api-test-secret-that-is-at-least-32-bytes",
			Issuer: "forum-tree-api",
			TTL:    time.Hour,
		},
		Content: config.ContentConfig{
			MaxNameLength:    200,
			MaxContentLength: 20000,
			MaxCommentLength: 100,
			FeedItems:        20,
		},
	}

	log := zerolog.Nop()
	repos, _, _, _, _ := mocks.NewMockRepositories()
	services := service.NewServices(repos, cfg, log)

	mockUsers := mocks.NewMockUserService()
	mockUsers.AddUser(aliceToken, &models.User{ID: 1, Username: "alice", Email: "alice@example.com"})
	mockUsers.AddUser(bobToken, &models.User{ID: 2, Username: "bob", Email: "bob@example.com"})
	mockExport := mocks.NewMockExportService()

	services.User = mockUsers
	services.Export = mockExport

	router := api.NewRouter(services, cfg, log)
	return router, mockUsers, mockExport
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, kind apperror.Kind) {
	t.Helper()
	if w.Code != status {
		t.Errorf("Expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != string(kind) {
		t.Errorf("Expected error %s, got %s", kind, body["error"])
	}
	if body["message"] == "" {
		t.Error("Expected a message")
	}
}

// createBoardWithRoot returns the ids of a new board owned by alice and its root article
func createBoardWithRoot(t *testing.T, router *gin.Engine, name string) (int64, int64) {
	t.Helper()

	w := doRequest(router, "POST", "/v1/boards", aliceToken, gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected board created, got %d: %s", w.Code, w.Body.String())
	}
	var board models.Board
	decode(t, w, &board)

	w = doRequest(router, "POST", "/v1/boards/"+itoa(board.ID)+"/articles", aliceToken,
		gin.H{"name": "Cats are better", "content": "They *are*."})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected root created, got %d: %s", w.Code, w.Body.String())
	}
	var root models.Article
	decode(t, w, &root)
	return board.ID, root.ID
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	decode(t, w, &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "forum-tree-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("Expected request id req-123, got %s", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, mockExport := setupTestRouter()
	mockExport.Counts["users"] = 10
	mockExport.Counts["boards"] = 3
	mockExport.Counts["articles"] = 500
	mockExport.Counts["comments"] = 2000

	w := doRequest(router, "GET", "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Database map[string]int `json:"database"`
	}
	decode(t, w, &response)

	db := response.Database
	if db["boards"] != 3 || db["articles"] != 500 || db["comments"] != 2000 {
		t.Errorf("Unexpected counts %v", db)
	}
}

func TestAuthRequired(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "POST", "/v1/boards", "", gin.H{"name": "anonymous"})
	expectError(t, w, http.StatusUnauthorized, apperror.KindAuth)
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("Expected WWW-Authenticate header")
	}

	w = doRequest(router, "POST", "/v1/boards", "forged", gin.H{"name": "forged"})
	expectError(t, w, http.StatusUnauthorized, apperror.KindAuth)
}

func TestCurrentUserEndpoints(t *testing.T) {
	router, mockUsers, _ := setupTestRouter()

	w := doRequest(router, "GET", "/v1/users/me", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var me models.User
	decode(t, w, &me)
	if me.Username != "alice" {
		t.Errorf("Expected alice, got %s", me.Username)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("Password hash must never be serialized")
	}

	w = doRequest(router, "PUT", "/v1/users/me", aliceToken, gin.H{"username": "alicia", "email": "alicia@example.com"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = doRequest(router, "DELETE", "/v1/users/me", bobToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if len(mockUsers.Deleted) != 1 || mockUsers.Deleted[0] != 2 {
		t.Errorf("Expected bob deleted, got %v", mockUsers.Deleted)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	router, mockUsers, _ := setupTestRouter()

	w := doRequest(router, "POST", "/v1/users/register", "", gin.H{"username": "carol"})
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	mockUsers.RegisterFn = func(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
		return nil, apperror.Validation("passwords do not match")
	}
	w = doRequest(router, "POST", "/v1/users/register", "", gin.H{
		"username": "carol", "email": "carol@example.com", "password1": "password123", "password2": "nope",
	})
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "POST", "/v1/users/login", "", gin.H{"username": "alice", "password": "whatever"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var token models.Token
	decode(t, w, &token)
	if token.AccessToken != aliceToken || token.TokenType != "bearer" {
		t.Errorf("Unexpected token %+v", token)
	}

	w = doRequest(router, "POST", "/v1/users/login", "", gin.H{"username": "mallory", "password": "whatever"})
	expectError(t, w, http.StatusUnauthorized, apperror.KindAuth)
}

func TestBoardEndpoints(t *testing.T) {
	router, _, _ := setupTestRouter()

	w := doRequest(router, "POST", "/v1/boards", aliceToken, gin.H{"name": "Vim or Emacs", "description": "choose"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var board models.Board
	decode(t, w, &board)

	w = doRequest(router, "POST", "/v1/boards", bobToken, gin.H{"name": "Vim or Emacs"})
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "GET", "/v1/boards/slug/vim-or-emacs", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 by slug, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/v1/boards?per_page=10&page=1", "", nil)
	var boards []models.Board
	decode(t, w, &boards)
	if len(boards) != 1 {
		t.Errorf("Expected 1 board, got %d", len(boards))
	}

	w = doRequest(router, "GET", "/v1/boards?page=abc", "", nil)
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "GET", "/v1/boards?page=9223372036854775807", "", nil)
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "PUT", "/v1/boards/"+itoa(board.ID), bobToken, gin.H{"name": "Mine now"})
	expectError(t, w, http.StatusForbidden, apperror.KindPermission)

	w = doRequest(router, "DELETE", "/v1/boards/"+itoa(board.ID), aliceToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	w = doRequest(router, "GET", "/v1/boards/"+itoa(board.ID), "", nil)
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)

	w = doRequest(router, "GET", "/v1/boards/abc", "", nil)
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)
}

func TestArticleTreeEndpoints(t *testing.T) {
	router, _, _ := setupTestRouter()
	boardID, rootID := createBoardWithRoot(t, router, "Cats or dogs")

	// second root on the same board
	w := doRequest(router, "POST", "/v1/boards/"+itoa(boardID)+"/articles", bobToken,
		gin.H{"name": "Dogs", "content": "Dogs."})
	expectError(t, w, http.StatusConflict, apperror.KindDuplicateRoot)

	// stance is case-insensitive at the boundary
	w = doRequest(router, "POST", "/v1/articles/"+itoa(rootID)+"/children", bobToken,
		gin.H{"logic": "agree", "name": "Yes", "content": "Indeed."})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var child models.Article
	decode(t, w, &child)
	if child.PathLogical != "ROOT/AGREE" {
		t.Errorf("Expected ROOT/AGREE, got %s", child.PathLogical)
	}
	if child.BoardID != boardID || child.CreatorID != 2 {
		t.Errorf("Expected board %d creator 2, got %d %d", boardID, child.BoardID, child.CreatorID)
	}

	w = doRequest(router, "POST", "/v1/articles/"+itoa(rootID)+"/children", bobToken,
		gin.H{"logic": "maybe", "name": "Hm", "content": "Hm."})
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "POST", "/v1/articles/999/children", bobToken,
		gin.H{"logic": "NEUTRAL", "name": "Lost", "content": "Lost."})
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)

	w = doRequest(router, "POST", "/v1/articles/"+itoa(child.ID)+"/children", aliceToken,
		gin.H{"logic": "DISAGREE", "name": "No", "content": "Not at all."})
	var grandchild models.Article
	decode(t, w, &grandchild)

	w = doRequest(router, "GET", "/v1/boards/"+itoa(boardID)+"/articles", "", nil)
	var articles []models.Article
	decode(t, w, &articles)
	if len(articles) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(articles))
	}
	if articles[0].ID != grandchild.ID || articles[2].ID != rootID {
		t.Errorf("Expected reverse pre-order, got %d first and %d last", articles[0].ID, articles[2].ID)
	}
	if !strings.Contains(articles[2].Rendered, "<em>are</em>") {
		t.Errorf("Expected rendered markdown, got %q", articles[2].Rendered)
	}

	w = doRequest(router, "GET", "/v1/boards/"+itoa(boardID)+"/tree", "", nil)
	var tree []struct {
		Article  models.Article    `json:"article"`
		Children []json.RawMessage `json:"children"`
	}
	decode(t, w, &tree)
	if len(tree) != 1 || tree[0].Article.ID != rootID || len(tree[0].Children) != 1 {
		t.Errorf("Unexpected tree %s", w.Body.String())
	}

	w = doRequest(router, "GET", "/v1/articles/"+itoa(rootID)+"/children", "", nil)
	var children []models.Article
	decode(t, w, &children)
	if len(children) != 1 || children[0].ID != child.ID {
		t.Errorf("Expected child %d, got %s", child.ID, w.Body.String())
	}
}

func TestArticleOwnership(t *testing.T) {
	router, _, _ := setupTestRouter()
	_, rootID := createBoardWithRoot(t, router, "Ownership")

	w := doRequest(router, "PUT", "/v1/articles/"+itoa(rootID), bobToken, gin.H{"name": "Mine", "content": "Mine"})
	expectError(t, w, http.StatusForbidden, apperror.KindPermission)

	w = doRequest(router, "DELETE", "/v1/articles/"+itoa(rootID), bobToken, nil)
	expectError(t, w, http.StatusForbidden, apperror.KindPermission)

	w = doRequest(router, "PUT", "/v1/articles/"+itoa(rootID), aliceToken, gin.H{"name": "Edited", "content": "Edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var updated models.Article
	decode(t, w, &updated)
	if updated.Name != "Edited" || updated.PathLogical != "ROOT" {
		t.Errorf("Unexpected update result %+v", updated)
	}

	w = doRequest(router, "DELETE", "/v1/articles/"+itoa(rootID), aliceToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	w = doRequest(router, "GET", "/v1/articles/"+itoa(rootID), "", nil)
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)
}

func TestCommentEndpoints(t *testing.T) {
	router, _, _ := setupTestRouter()
	_, rootID := createBoardWithRoot(t, router, "Comments")

	w := doRequest(router, "POST", "/v1/articles/"+itoa(rootID)+"/comments", bobToken,
		gin.H{"content": strings.Repeat("x", 100)})
	expectError(t, w, http.StatusBadRequest, apperror.KindValidation)

	w = doRequest(router, "POST", "/v1/articles/"+itoa(rootID)+"/comments", bobToken, gin.H{"content": "meow"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	var comment models.Comment
	decode(t, w, &comment)

	w = doRequest(router, "GET", "/v1/articles/"+itoa(rootID)+"/comments", "", nil)
	var comments []models.Comment
	decode(t, w, &comments)
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment, got %d", len(comments))
	}

	w = doRequest(router, "PUT", "/v1/comments/"+itoa(comment.ID), aliceToken, gin.H{"content": "woof"})
	expectError(t, w, http.StatusForbidden, apperror.KindPermission)

	w = doRequest(router, "DELETE", "/v1/comments/"+itoa(comment.ID), bobToken, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	w = doRequest(router, "GET", "/v1/comments/"+itoa(comment.ID), "", nil)
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)
}

func TestExportEndpoint(t *testing.T) {
	router, _, mockExport := setupTestRouter()

	var gotFormat string
	mockExport.StreamBoardFunc = func(ctx context.Context, boardID int64, w http.ResponseWriter, format string) error {
		gotFormat = format
		if boardID == 404 {
			return apperror.NotFound("board %d not found", boardID)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"id":1}` + "\n"))
		return nil
	}

	w := doRequest(router, "GET", "/v1/boards/1/export", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if gotFormat != "ndjson" {
		t.Errorf("Expected default format ndjson, got %s", gotFormat)
	}

	w = doRequest(router, "GET", "/v1/boards/404/export?format=csv", "", nil)
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)
	if gotFormat != "csv" {
		t.Errorf("Expected format csv, got %s", gotFormat)
	}
}

func TestFeedEndpoint(t *testing.T) {
	router, _, _ := setupTestRouter()
	boardID, _ := createBoardWithRoot(t, router, "Feed board")

	w := doRequest(router, "GET", "/v1/boards/"+itoa(boardID)+"/feed.xml", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/rss+xml" {
		t.Errorf("Expected rss content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "Cats are better") {
		t.Errorf("Expected root article in feed, got %s", w.Body.String())
	}

	w = doRequest(router, "GET", "/v1/boards/999/feed.xml", "", nil)
	expectError(t, w, http.StatusNotFound, apperror.KindNotFound)
}
