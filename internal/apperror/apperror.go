// Package apperror defines the client-facing error kinds of the API and the
// translation of storage constraint violations into them.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Kind identifies a class of failure with a stable name.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindDuplicateRoot    Kind = "duplicate_root"
	KindPermission       Kind = "permission_denied"
	KindValidation       Kind = "validation"
	KindAuth             Kind = "unauthorized"
	KindStorageIntegrity Kind = "storage_integrity"
	KindInternal         Kind = "internal"
)

// RootArticleConstraint is the partial unique index allowing one root article per board.
const RootArticleConstraint = "articles_one_root_per_board"

// postgres error codes
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// Error is a domain error carrying its kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrDuplicateRoot = &Error{Kind: KindDuplicateRoot}
	ErrPermission    = &Error{Kind: KindPermission}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrAuth          = &Error{Kind: KindAuth}
)

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func DuplicateRoot(boardID int64) *Error {
	return &Error{Kind: KindDuplicateRoot, Message: fmt.Sprintf("board %d already has a post", boardID)}
}

func Permission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Auth(err error) *Error {
	return &Error{Kind: KindAuth, Message: "could not validate credentials", Err: err}
}

// KindOf returns the kind of err, or KindInternal for errors this package does not know.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a kind onto a response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateRoot:
		return http.StatusConflict
	case KindPermission:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindStorageIntegrity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message shown to API clients. Internal errors are opaque.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

// FromStorage translates integrity violations reported by postgres into domain
// errors. Any other error is returned unchanged.
//
//	23503 foreign key -> not_found (the referenced row is gone)
//	23505 unique      -> duplicate_root for the root index, validation otherwise
func FromStorage(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeForeignKeyViolation:
		return &Error{Kind: KindNotFound, Message: "referenced resource does not exist", Err: err}
	case codeUniqueViolation:
		if pqErr.Constraint == RootArticleConstraint {
			return &Error{Kind: KindDuplicateRoot, Message: "board already has a post", Err: err}
		}
		return &Error{Kind: KindValidation, Message: "resource already exists", Err: err}
	}
	if pqErr.Code.Class() == "23" {
		return &Error{Kind: KindStorageIntegrity, Message: "integrity constraint violated", Err: err}
	}
	return err
}
