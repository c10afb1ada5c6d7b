package validation

import (
	"strings"
	"testing"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/config"
	"github.com/forum-tree-api/internal/models"
)

func newTestValidator() *Validator {
	return NewValidator(config.ContentConfig{
		MaxNameLength:    20,
		MaxContentLength: 50,
		MaxCommentLength: 100,
	})
}

func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestValidateArticle(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name       string
		title      string
		content    string
		wantFields []string
	}{
		{name: "valid", title: "Claim", content: "Because reasons"},
		{name: "missing name", title: "  ", content: "body", wantFields: []string{"name"}},
		{name: "missing content", title: "Claim", content: "", wantFields: []string{"content"}},
		{name: "name too long", title: strings.Repeat("n", 21), content: "body", wantFields: []string{"name"}},
		{name: "content too long", title: "Claim", content: strings.Repeat("c", 51), wantFields: []string{"content"}},
		{name: "multibyte counted as characters", title: strings.Repeat("불", 20), content: "장작"},
		{name: "both missing", title: "", content: "", wantFields: []string{"name", "content"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validator.ValidateArticle(tt.title, tt.content)
			got := fields(errs)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("Expected fields %v, got %v", tt.wantFields, got)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("Expected field %s, got %s", tt.wantFields[i], got[i])
				}
			}
		})
	}
}

func TestValidateComment_LimitIsExclusive(t *testing.T) {
	validator := newTestValidator()

	if errs := validator.ValidateComment(strings.Repeat("a", 99)); len(errs) != 0 {
		t.Errorf("Expected 99 characters to pass, got %v", errs)
	}
	if errs := validator.ValidateComment(strings.Repeat("a", 100)); len(errs) != 1 {
		t.Errorf("Expected 100 characters to fail, got %v", errs)
	}
	if errs := validator.ValidateComment(""); len(errs) != 1 {
		t.Errorf("Expected empty comment to fail, got %v", errs)
	}
}

func TestValidateRegistration(t *testing.T) {
	validator := newTestValidator()

	valid := &models.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "password123",
		Password2: "password123",
	}
	if errs := validator.ValidateRegistration(valid); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}

	mismatch := *valid
	mismatch.Password2 = "password124"
	errs := validator.ValidateRegistration(&mismatch)
	if len(errs) != 1 || errs[0].Field != "password2" {
		t.Errorf("Expected password mismatch, got %v", errs)
	}

	long := *valid
	long.Password1 = strings.Repeat("p", 73)
	long.Password2 = long.Password1
	errs = validator.ValidateRegistration(&long)
	if len(errs) != 1 || errs[0].Field != "password1" {
		t.Errorf("Expected password1 too long, got %v", errs)
	}

	atLimit := *valid
	atLimit.Password1 = strings.Repeat("p", 72)
	atLimit.Password2 = atLimit.Password1
	if errs := validator.ValidateRegistration(&atLimit); len(errs) != 0 {
		t.Errorf("Expected 72 bytes to pass, got %v", errs)
	}

	bad := &models.RegisterRequest{Username: "a!", Email: "not-an-email", Password1: "short", Password2: "short"}
	errs = validator.ValidateRegistration(bad)
	got := strings.Join(fields(errs), ",")
	if got != "username,email,password1" {
		t.Errorf("Expected username,email,password1 errors, got %s", got)
	}
}

func TestValidateBoard(t *testing.T) {
	validator := newTestValidator()

	if errs := validator.ValidateBoard("Is tea better than coffee?", ""); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
	if errs := validator.ValidateBoard("", ""); len(errs) != 1 {
		t.Errorf("Expected missing name error, got %v", errs)
	}
}

func TestAsError(t *testing.T) {
	if err := AsError(nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	err := AsError([]ValidationError{{Field: "name", Message: "name is required"}})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("Expected validation kind, got %s", apperror.KindOf(err))
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("Expected message in error, got %v", err)
	}
}
