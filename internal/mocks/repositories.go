package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository    = (*MockUserRepository)(nil)
	_ repository.BoardRepository   = (*MockBoardRepository)(nil)
	_ repository.ArticleRepository = (*MockArticleRepository)(nil)
	_ repository.CommentRepository = (*MockCommentRepository)(nil)
)

// NewMockRepositories wires the in-memory repositories together so that
// foreign keys and cascades behave like the postgres schema.
func NewMockRepositories() (*repository.Repositories, *MockUserRepository, *MockBoardRepository, *MockArticleRepository, *MockCommentRepository) {
	users := NewMockUserRepository()
	boards := NewMockBoardRepository()
	comments := NewMockCommentRepository()
	articles := NewMockArticleRepository()

	articles.Boards = boards
	articles.Comments = comments
	boards.Articles = articles
	comments.Articles = articles

	repos := &repository.Repositories{
		User:    users,
		Board:   boards,
		Article: articles,
		Comment: comments,
	}
	return repos, users, boards, articles, comments
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mu          sync.Mutex
	Users       map[int64]*models.User
	CreateError error
	nextID      int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	for _, u := range m.Users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.Validation("resource already exists")
		}
	}
	m.nextID++
	now := time.Now().UTC()
	user.ID = m.nextID
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	m.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Users[user.ID]
	if !ok {
		return apperror.NotFound("user %d not found", user.ID)
	}
	for id, u := range m.Users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return apperror.Validation("resource already exists")
		}
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.UpdatedAt = time.Now().UTC()
	user.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[id]; !ok {
		return apperror.NotFound("user %d not found", id)
	}
	delete(m.Users, id)
	return nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Users), nil
}

// MockBoardRepository is a mock implementation of BoardRepository
type MockBoardRepository struct {
	mu       sync.Mutex
	Boards   map[int64]*models.Board
	Articles *MockArticleRepository // receives the cascade on Delete when set
	nextID   int64
}

func NewMockBoardRepository() *MockBoardRepository {
	return &MockBoardRepository{Boards: make(map[int64]*models.Board)}
}

func (m *MockBoardRepository) Create(ctx context.Context, board *models.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.Boards {
		if b.Name == board.Name || b.Slug == board.Slug {
			return apperror.Validation("resource already exists")
		}
	}
	m.nextID++
	now := time.Now().UTC()
	board.ID = m.nextID
	board.CreatedAt, board.UpdatedAt = now, now
	stored := *board
	m.Boards[board.ID] = &stored
	return nil
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.Boards[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *MockBoardRepository) GetBySlug(ctx context.Context, slug string) (*models.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.Boards {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockBoardRepository) List(ctx context.Context, limit, offset int) ([]*models.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boards := make([]*models.Board, 0, len(m.Boards))
	for _, b := range m.Boards {
		cp := *b
		boards = append(boards, &cp)
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID > boards[j].ID })

	if offset >= len(boards) {
		return []*models.Board{}, nil
	}
	end := offset + limit
	if end > len(boards) {
		end = len(boards)
	}
	return boards[offset:end], nil
}

func (m *MockBoardRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Boards[id]
	return ok, nil
}

func (m *MockBoardRepository) Update(ctx context.Context, board *models.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.Boards[board.ID]
	if !ok {
		return apperror.NotFound("board %d not found", board.ID)
	}
	for id, b := range m.Boards {
		if id != board.ID && (b.Name == board.Name || b.Slug == board.Slug) {
			return apperror.Validation("resource already exists")
		}
	}
	stored.Name = board.Name
	stored.Slug = board.Slug
	stored.Description = board.Description
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockBoardRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	if _, ok := m.Boards[id]; !ok {
		m.mu.Unlock()
		return apperror.NotFound("board %d not found", id)
	}
	delete(m.Boards, id)
	m.mu.Unlock()

	if m.Articles != nil {
		m.Articles.deleteBoard(id)
	}
	return nil
}

func (m *MockBoardRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Boards), nil
}

// MockArticleRepository is an in-memory ArticleRepository. Every method holds
// the same lock, so InsertRoot's emptiness check and insert are atomic just
// like the locking transaction of the postgres implementation.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[int64]*models.Article
	Boards   *MockBoardRepository   // consulted by InsertRoot when set
	Comments *MockCommentRepository // receives the cascade on delete when set

	NextIDError error
	InsertError error
	InsertCalls int
	nextID      int64
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{Articles: make(map[int64]*models.Article)}
}

func (m *MockArticleRepository) NextID(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NextIDError != nil {
		return 0, m.NextIDError
	}
	m.nextID++
	return m.nextID, nil
}

// SetNextID makes the next reserved id equal to id, to exercise ids of differing width.
func (m *MockArticleRepository) SetNextID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = id - 1
}

func (m *MockArticleRepository) InsertRoot(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	if m.Boards != nil {
		if ok, _ := m.Boards.Exists(ctx, article.BoardID); !ok {
			return apperror.NotFound("board %d not found", article.BoardID)
		}
	}
	for _, a := range m.Articles {
		if a.BoardID == article.BoardID {
			return apperror.DuplicateRoot(article.BoardID)
		}
	}
	m.store(article)
	return nil
}

func (m *MockArticleRepository) Insert(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InsertCalls++
	if m.InsertError != nil {
		return m.InsertError
	}
	if article.ParentID == nil {
		return apperror.Validation("child article needs a parent")
	}
	if _, ok := m.Articles[*article.ParentID]; !ok {
		return apperror.NotFound("referenced resource does not exist")
	}
	if _, ok := m.Articles[article.ID]; ok {
		return apperror.Validation("resource already exists")
	}
	m.store(article)
	return nil
}

func (m *MockArticleRepository) store(article *models.Article) {
	now := time.Now().UTC()
	article.CreatedAt, article.UpdatedAt = now, now
	stored := *article
	stored.Rendered = ""
	m.Articles[article.ID] = &stored
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.Articles[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

// ListByBoard returns articles in map order. The service is expected to sort.
func (m *MockArticleRepository) ListByBoard(ctx context.Context, boardID int64) ([]*models.Article, error) {
	return m.filter(func(a *models.Article) bool { return a.BoardID == boardID }), nil
}

func (m *MockArticleRepository) ListChildren(ctx context.Context, parentID int64) ([]*models.Article, error) {
	children := m.filter(func(a *models.Article) bool {
		return a.ParentID != nil && *a.ParentID == parentID
	})
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

func (m *MockArticleRepository) filter(keep func(*models.Article) bool) []*models.Article {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.Article{}
	for _, a := range m.Articles {
		if keep(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

func (m *MockArticleRepository) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	return len(m.filter(func(a *models.Article) bool { return a.BoardID == boardID })), nil
}

func (m *MockArticleRepository) UpdateContent(ctx context.Context, id int64, name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.Articles[id]
	if !ok {
		return apperror.NotFound("article %d not found", id)
	}
	a.Name = name
	a.Content = content
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockArticleRepository) DeleteSubtree(ctx context.Context, article *models.Article) (int64, error) {
	m.mu.Lock()
	var removed []int64
	for id, a := range m.Articles {
		if a.BoardID != article.BoardID {
			continue
		}
		if id == article.ID || article.Path.IsAncestorOf(a.Path) {
			delete(m.Articles, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	if m.Comments != nil {
		m.Comments.deleteArticles(removed)
	}
	return int64(len(removed)), nil
}

func (m *MockArticleRepository) deleteBoard(boardID int64) {
	m.mu.Lock()
	var removed []int64
	for id, a := range m.Articles {
		if a.BoardID == boardID {
			delete(m.Articles, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	if m.Comments != nil {
		m.Comments.deleteArticles(removed)
	}
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Articles), nil
}

// StreamByBoard streams newest first by id.
func (m *MockArticleRepository) StreamByBoard(ctx context.Context, boardID int64, callback func(*models.Article) error) error {
	articles, _ := m.ListByBoard(ctx, boardID)
	sort.Slice(articles, func(i, j int) bool { return articles[i].ID > articles[j].ID })
	for _, a := range articles {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	mu       sync.Mutex
	Comments map[int64]*models.Comment
	Articles *MockArticleRepository // checked on Create when set
	nextID   int64
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[int64]*models.Comment)}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.Articles != nil {
		if a, _ := m.Articles.GetByID(ctx, comment.ArticleID); a == nil {
			return apperror.NotFound("referenced resource does not exist")
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now().UTC()
	comment.ID = m.nextID
	comment.CreatedAt, comment.UpdatedAt = now, now
	stored := *comment
	m.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.Comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*models.Comment{}
	for _, c := range m.Comments {
		if c.ArticleID == articleID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, id int64, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.Comments[id]
	if !ok {
		return apperror.NotFound("comment %d not found", id)
	}
	c.Content = content
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Comments[id]; !ok {
		return apperror.NotFound("comment %d not found", id)
	}
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Comments), nil
}

func (m *MockCommentRepository) deleteArticles(articleIDs []int64) {
	if len(articleIDs) == 0 {
		return
	}
	gone := make(map[int64]bool, len(articleIDs))
	for _, id := range articleIDs {
		gone[id] = true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.Comments {
		if gone[c.ArticleID] {
			delete(m.Comments, id)
		}
	}
}
