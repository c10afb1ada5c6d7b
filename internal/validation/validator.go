package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forum-tree-api/internal/apperror"
	"github.com/forum-tree-api/internal/config"
	"github.com/forum-tree-api/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.-]{3,64}$`)
)

const (
	minPasswordLength  = 8
	maxPasswordBytes   = 72 // bcrypt input limit
	maxBoardNameLength = 200
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks user input against the configured content limits
type Validator struct {
	limits config.ContentConfig
}

// NewValidator creates a new validator instance
func NewValidator(limits config.ContentConfig) *Validator {
	return &Validator{limits: limits}
}

// ValidateArticle validates the user editable fields of an article
func (v *Validator) ValidateArticle(name, content string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	} else if n := utf8.RuneCountInString(name); n > v.limits.MaxNameLength {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be at most %d characters", v.limits.MaxNameLength),
			Value:   n,
		})
	}

	if strings.TrimSpace(content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	} else if n := utf8.RuneCountInString(content); n > v.limits.MaxContentLength {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must be at most %d characters", v.limits.MaxContentLength),
			Value:   n,
		})
	}

	return errors
}

// ValidateComment validates comment content; the limit is exclusive
func (v *Validator) ValidateComment(content string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	} else if n := utf8.RuneCountInString(content); n >= v.limits.MaxCommentLength {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("comment must be shorter than %d characters", v.limits.MaxCommentLength),
			Value:   n,
		})
	}

	return errors
}

// ValidateBoard validates board name and description
func (v *Validator) ValidateBoard(name, description string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	} else if utf8.RuneCountInString(name) > maxBoardNameLength {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must be at most %d characters", maxBoardNameLength),
		})
	}

	if utf8.RuneCountInString(description) > v.limits.MaxContentLength {
		errors = append(errors, ValidationError{Field: "description", Message: "description is too long"})
	}

	return errors
}

// ValidateRegistration validates a sign up request
func (v *Validator) ValidateRegistration(req *models.RegisterRequest) []ValidationError {
	errors := v.ValidateUser(req.Username, req.Email)

	if utf8.RuneCountInString(req.Password1) < minPasswordLength {
		errors = append(errors, ValidationError{
			Field:   "password1",
			Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		})
	}
	if len(req.Password1) > maxPasswordBytes {
		errors = append(errors, ValidationError{
			Field:   "password1",
			Message: fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes),
		})
	}
	if req.Password1 != req.Password2 {
		errors = append(errors, ValidationError{Field: "password2", Message: "passwords do not match"})
	}

	return errors
}

// ValidateUser validates username and email
func (v *Validator) ValidateUser(username, email string) []ValidationError {
	var errors []ValidationError

	if username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if !usernameRegex.MatchString(username) {
		errors = append(errors, ValidationError{
			Field:   "username",
			Message: "username must be 3-64 letters, digits, '_', '.' or '-'",
			Value:   username,
		})
	}

	if email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: email})
	}

	return errors
}

// AsError folds validation errors into a single validation apperror, or nil
func AsError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Field + ": " + e.Message
	}
	return apperror.Validation("%s", strings.Join(msgs, "; "))
}
