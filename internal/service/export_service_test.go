package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/treepath"
)

// seedBoard creates a board holding a root with two children
func seedBoard(t *testing.T, env *testEnv) int64 {
	t.Helper()
	ctx := context.Background()
	boardID := env.newBoard(t, 1, "Exported")
	root, err := env.services.Article.CreateRoot(ctx, boardID, 1, "root", "the root")
	if err != nil {
		t.Fatalf("CreateRoot failed: %v", err)
	}
	env.services.Article.AppendChild(ctx, root.ID, 1, treepath.Agree, "agree", "line one, \"quoted\"")
	env.services.Article.AppendChild(ctx, root.ID, 1, treepath.Disagree, "disagree", "nope")
	return boardID
}

func TestExportService_StreamBoard_NDJSON(t *testing.T) {
	env := newTestEnv()
	boardID := seedBoard(t, env)

	w := httptest.NewRecorder()
	if err := env.services.Export.StreamBoard(context.Background(), boardID, w, "ndjson"); err != nil {
		t.Fatalf("StreamBoard failed: %v", err)
	}

	if ct := w.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Expected ndjson content type, got %s", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		var article models.Article
		if err := json.Unmarshal([]byte(line), &article); err != nil {
			t.Fatalf("Invalid JSON line %q: %v", line, err)
		}
		if !treepath.Consistent(article.Path, article.PathLogical) {
			t.Errorf("Inconsistent exported paths %s %s", article.Path, article.PathLogical)
		}
	}
}

func TestExportService_StreamBoard_JSON(t *testing.T) {
	env := newTestEnv()
	boardID := seedBoard(t, env)

	w := httptest.NewRecorder()
	if err := env.services.Export.StreamBoard(context.Background(), boardID, w, "json"); err != nil {
		t.Fatalf("StreamBoard failed: %v", err)
	}

	var articles []models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &articles); err != nil {
		t.Fatalf("Invalid JSON array: %v", err)
	}
	if len(articles) != 3 {
		t.Errorf("Expected 3 articles, got %d", len(articles))
	}
}

func TestExportService_StreamBoard_CSV(t *testing.T) {
	env := newTestEnv()
	boardID := seedBoard(t, env)

	w := httptest.NewRecorder()
	if err := env.services.Export.StreamBoard(context.Background(), boardID, w, "csv"); err != nil {
		t.Fatalf("StreamBoard failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(w.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][7] != "path_logical" {
		t.Errorf("Unexpected header %v", records[0])
	}

	var sawQuoted, sawRoot bool
	for _, r := range records[1:] {
		if r[5] == "line one, \"quoted\"" {
			sawQuoted = true
		}
		if r[7] == "ROOT" {
			sawRoot = true
			if r[2] != "" {
				t.Errorf("Expected empty parent_id for root, got %q", r[2])
			}
		}
	}
	if !sawQuoted || !sawRoot {
		t.Errorf("Expected quoted content and a root row, got %v", records)
	}
}

func TestExportService_StreamBoard_Errors(t *testing.T) {
	env := newTestEnv()
	boardID := seedBoard(t, env)

	w := httptest.NewRecorder()
	err := env.services.Export.StreamBoard(context.Background(), boardID, w, "xml")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if w.Body.Len() != 0 {
		t.Error("Expected nothing written for a bad format")
	}

	err = env.services.Export.StreamBoard(context.Background(), 999, httptest.NewRecorder(), "json")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestFeedService_WriteBoardFeed(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	boardID := seedBoard(t, env)

	var buf bytes.Buffer
	if err := env.services.Feed.WriteBoardFeed(ctx, &buf, boardID, "http://forum.test/"); err != nil {
		t.Fatalf("WriteBoardFeed failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"<rss", "<title>Exported</title>", "[AGREE] agree", "[DISAGREE] disagree", "http://forum.test/v1/articles/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected feed to contain %q", want)
		}
	}

	err := env.services.Feed.WriteBoardFeed(ctx, &buf, 999, "http://forum.test")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Expected not found error, got %v", err)
	}
}
