package models

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"store-ratings/internal/apperrors"
)

const (
	nameMinLen    = 20
	nameMaxLen    = 60
	addressMaxLen = 400
	passwordMin   = 8
	passwordMax   = 16

	// The special-character set the password policy accepts.
	passwordSpecials = `!@#$%^&*()_-+=[]{};':"\|,.<>/?`
)

func ValidateName(name string) error {
	if name == "" {
		return apperrors.Validation("Name is required")
	}
	n := utf8.RuneCountInString(name)
	if n < nameMinLen || n > nameMaxLen {
		return apperrors.Validation("Name must be between 20 and 60 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return apperrors.Validation("Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperrors.Validation("Email is not valid")
	}
	return nil
}

func ValidateAddress(address string) error {
	if utf8.RuneCountInString(address) > addressMaxLen {
		return apperrors.Validation("Address cannot exceed 400 characters")
	}
	return nil
}

// ValidatePassword enforces the registration policy: 8-16 characters with
// at least one uppercase letter and at least one special character.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < passwordMin || n > passwordMax {
		return apperrors.Validation("Password must be 8-16 characters and include at least one uppercase letter and one special character")
	}

	var hasUpper, hasSpecial bool
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if strings.ContainsRune(passwordSpecials, r) {
			hasSpecial = true
		}
	}
	if !hasUpper || !hasSpecial {
		return apperrors.Validation("Password must be 8-16 characters and include at least one uppercase letter and one special character")
	}
	return nil
}

func ValidateRole(role string) error {
	switch UserRole(role) {
	case RoleAdmin, RoleUser, RoleOwner:
		return nil
	}
	return apperrors.Validation("Role must be one of admin, user, owner")
}

func ValidateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.Validation("Rating must be integer 1-5")
	}
	return nil
}
