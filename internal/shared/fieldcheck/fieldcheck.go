// Package fieldcheck holds the normalise-then-validate helpers shared by the
// entity services: trimming, case folding, length limits and email format.
package fieldcheck

import (
	"strings"
	"unicode/utf8"

	"go-leave/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Text trims v and enforces 1..max characters.
func Text(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperror.RequiredField(field)
	}
	if utf8.RuneCountInString(v) > max {
		return "", apperror.TooLong(field, max)
	}
	return v, nil
}

// OptionalText trims v and enforces max characters; empty is allowed.
func OptionalText(field, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) > max {
		return "", apperror.TooLong(field, max)
	}
	return v, nil
}

// Code trims and upper-cases v, then enforces 1..max characters.
func Code(field, v string, max int) (string, error) {
	return Text(field, strings.ToUpper(v), max)
}

// Email trims and lower-cases v, enforces max characters and email format.
func Email(field, v string, max int) (string, error) {
	v, err := Text(field, strings.ToLower(v), max)
	if err != nil {
		return "", err
	}
	if err := validate.Var(v, "email"); err != nil {
		return "", apperror.Validation(field + " must be a valid email address")
	}
	return v, nil
}

// NonNegative rejects negative integers.
func NonNegative(field string, v int) (int, error) {
	if v < 0 {
		return 0, apperror.Validation(field + " must be a non-negative integer")
	}
	return v, nil
}

// Positive rejects zero and negative integers.
func Positive(field string, v int) (int, error) {
	if v <= 0 {
		return 0, apperror.Validation(field + " must be a positive integer")
	}
	return v, nil
}
