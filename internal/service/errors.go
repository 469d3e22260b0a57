package service

import (
	"errors"
	"fmt"

	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

// Kind classifies a failed operation. Handlers map every kind except
// Unauthorized from middleware to an envelope with status false.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error is the failure half of every service result
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns KindInternal for errors that are not *Error
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing text of err
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// internalError keeps the raw cause in the message, clients see it verbatim
func internalError(action string, err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Message: fmt.Sprintf("Error %s: %v", action, err),
		Err:     err,
	}
}

// asServiceError passes *Error through and wraps anything else as internal
func asServiceError(action string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internalError(action, err)
}

// logFailure logs err at the level its kind deserves and converts it to *Error
func logFailure(action string, err error, fields ...zap.Field) error {
	var missing *repository.MissingReferenceError
	if errors.As(err, &missing) {
		err = missingReference(missing)
	}

	svcErr := asServiceError(action, err)
	fields = append(fields, zap.String("action", action), zap.Error(svcErr))
	if KindOf(svcErr) == KindInternal {
		logger.Log.Error("Operation failed", fields...)
	} else {
		logger.Log.Warn("Operation rejected", fields...)
	}
	return svcErr
}

const (
	MsgEmailRegistered        = "Email is already registered"
	MsgEmailTakenByOther      = "Email is already registered by another user"
	MsgDefaultRoleMissing     = "Default role not found"
	MsgRoleMissing            = "The specified role does not exist"
	MsgInvalidCredentials     = "Invalid credentials"
	MsgInvalidToken           = "Invalid or expired token"
	MsgUserNotFound           = "User not found"
	MsgPostNotFound           = "Post not found"
	MsgTagNotFound            = "Tag not found"
	MsgOwnerMissing           = "Owner user does not exist or was deleted"
	MsgCannotEditPost         = "You do not have permission to edit this post"
	MsgCannotDeletePost       = "You do not have permission to delete this post"
	msgMissingReferenceFormat = "%s with ID %d does not exist or was deleted"
)
