package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Baaaki/content-square/internal/repository"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	maxNameLen    = 50
	maxEmailLen   = 100
	maxTagNameLen = 100
	maxTitleLen   = 255
)

func validateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return newError(KindValidation, fmt.Sprintf("%s is required", field))
	}
	return nil
}

func validateMaxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return newError(KindValidation, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func validateEmail(email string) error {
	if err := validateMaxLen("email", email, maxEmailLen); err != nil {
		return err
	}
	if !emailRegex.MatchString(email) {
		return newError(KindValidation, "invalid email format")
	}
	return nil
}

func validateName(name, surname string) error {
	if err := validateRequired("name", name); err != nil {
		return err
	}
	if err := validateRequired("surname", surname); err != nil {
		return err
	}
	if err := validateMaxLen("name", name, maxNameLen); err != nil {
		return err
	}
	return validateMaxLen("surname", surname, maxNameLen)
}

// firstError returns the first non-nil error
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// missingReference turns a repository lookup failure into a validation error
func missingReference(err *repository.MissingReferenceError) *Error {
	entity := strings.ToUpper(err.Entity[:1]) + err.Entity[1:]
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(msgMissingReferenceFormat, entity, err.ID),
		Err:     err,
	}
}
