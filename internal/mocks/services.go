package mocks

import (
	"context"
	"net/http"
	"sync"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/models"
	"github.com/forum-tree-api/internal/service"
)

// MockUserService resolves bearer tokens from a fixed table
type MockUserService struct {
	mu         sync.Mutex
	Tokens     map[string]*models.User
	RegisterFn func(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	LoginFn    func(ctx context.Context, req *models.LoginRequest) (*models.Token, error)
	Deleted    []int64
}

// Verify interface compliance
var _ service.UserService = (*MockUserService)(nil)

func NewMockUserService() *MockUserService {
	return &MockUserService{Tokens: make(map[string]*models.User)}
}

// AddUser makes token authenticate as user
func (m *MockUserService) AddUser(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[token] = user
}

func (m *MockUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, req)
	}
	return &models.User{ID: 1, Username: req.Username, Email: req.Email}, nil
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.Token, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, u := range m.Tokens {
		if u.Username == req.Username {
			return &models.Token{AccessToken: token, TokenType: "bearer", Username: u.Username}, nil
		}
	}
	return nil, apperror.Auth(nil)
}

func (m *MockUserService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Tokens[token]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperror.Auth(nil)
}

func (m *MockUserService) Update(ctx context.Context, callerID int64, req *models.UpdateUserRequest) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Tokens {
		if u.ID == callerID {
			u.Username = req.Username
			u.Email = req.Email
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user %d not found", callerID)
}

func (m *MockUserService) Delete(ctx context.Context, callerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, u := range m.Tokens {
		if u.ID == callerID {
			delete(m.Tokens, token)
		}
	}
	m.Deleted = append(m.Deleted, callerID)
	return nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamBoardFunc func(ctx context.Context, boardID int64, w http.ResponseWriter, format string) error
	Counts          map[string]int
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"users":    0,
			"boards":   0,
			"articles": 0,
			"comments": 0,
		},
	}
}

func (m *MockExportService) StreamBoard(ctx context.Context, boardID int64, w http.ResponseWriter, format string) error {
	if m.StreamBoardFunc != nil {
		return m.StreamBoardFunc(ctx, boardID, w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}
