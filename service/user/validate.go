package usersvc

import (
	"strings"
	"unicode/utf8"

	"libraryapi/service/errs"

	"github.com/go-playground/validator/v10"
)

const (
	MinPasswordLen = 8
	maxNameLen     = 100
)

var v = validator.New()

func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.Invalid("Email is required")
	}
	if v.Var(email, "email,max=255") != nil {
		return errs.Invalid("Invalid email format")
	}
	return nil
}

func ValidatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLen {
		return errs.Invalid("Password must be at least %d characters", MinPasswordLen)
	}
	return nil
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.Invalid("Name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return errs.Invalid("Name must not exceed %d characters", maxNameLen)
	}
	return nil
}
