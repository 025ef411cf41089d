package auth

import (
	"net/mail"
	"strings"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/users"
)

const blankMessage = "This field may not be blank."

// fieldChecks collects per-field messages; the first message for a field wins.
type fieldChecks map[string]string

func (fc fieldChecks) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		fc.add(field, blankMessage)
	}
}

func (fc fieldChecks) email(field, value string) {
	if strings.TrimSpace(value) == "" {
		fc.add(field, blankMessage)
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		fc.add(field, "Enter a valid email address.")
	}
}

func (fc fieldChecks) add(field, message string) {
	if _, ok := fc[field]; !ok {
		fc[field] = message
	}
}

func (fc fieldChecks) err() error {
	if len(fc) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Fields: fc}
}

// validateCredentials only rejects input that can never succeed; everything else is
// left to the API.
func validateCredentials(email, password string) error {
	fc := fieldChecks{}
	fc.required("email", email)
	fc.required("password", password)
	return fc.err()
}

func validateRegistration(reg users.Registration) error {
	fc := fieldChecks{}
	fc.email("email", reg.Email)
	fc.required("password", reg.Password)
	fc.required("first_name", reg.FirstName)
	fc.required("last_name", reg.LastName)
	return fc.err()
}

func validatePasswordChange(oldPassword, newPassword string) error {
	fc := fieldChecks{}
	fc.required("old_password", oldPassword)
	fc.required("new_password", newPassword)
	return fc.err()
}

func validateProfileChanges(changes users.ProfileChanges) error {
	if changes.IsEmpty() {
		return apperrors.NewValidationError(apperrors.GeneralField, "Nothing to update.")
	}
	fc := fieldChecks{}
	if changes.Email != nil {
		fc.email("email", *changes.Email)
	}
	return fc.err()
}
