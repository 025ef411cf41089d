package users

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-todo-client/internal/utils"
)

// User is the profile returned by GET /api/users/me/.
type User struct {
	ID            int    `json:"id"`                      // Server assigned identifier
	Email         string `json:"email"`                   // Login email
	FirstName     string `json:"first_name"`              // First name of the user
	LastName      string `json:"last_name"`               // Last name of the user
	Photo         string `json:"photo,omitempty"`         // Derived: photo, falling back to profile_image
	ProfileImage  string `json:"profile_image,omitempty"` // URL of the uploaded profile image
	Address       string `json:"address"`                 // Postal address
	ContactNumber string `json:"contact_number"`          // Phone number
	Birthday      string `json:"birthday"`                // YYYY-MM-DD
	Bio           string `json:"bio"`                     // Free text
}

// FromJSON decodes a user payload and derives Photo.
func FromJSON(data []byte) (*User, error) {
	u, err := (User{}).Merge(data)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Merge overlays the fields present in data onto a copy of u. Photo is recomputed as
// data's photo when it carries one, otherwise the resulting profile image.
func (u User) Merge(data []byte) (User, error) {
	merged := u
	merged.Photo = ""
	if err := json.Unmarshal(data, &merged); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}
	return merged.WithDerivedPhoto(), nil
}

// WithDerivedPhoto returns a copy whose Photo falls back to ProfileImage.
func (u User) WithDerivedPhoto() User {
	u.Photo = utils.Coalesce(u.Photo, u.ProfileImage)
	return u
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Account is the server side record behind a User.
type Account struct {
	User
	PasswordHash string    `json:"-"` // never serialize
	DateJoined   time.Time `json:"date_joined"`
	LastLogin    time.Time `json:"last_login,omitempty"`
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains at least one letter
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	var (
		hasLetter bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Registration is the body of POST /api/users/signup/.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileChanges is a partial profile update. Nil fields are not sent; a field set
// to "" clears it.
type ProfileChanges struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Address       *string
	ContactNumber *string
	Birthday      *string
	Bio           *string
	Photo         *PhotoUpload
}

// PhotoUpload is the binary payload of a profile image.
type PhotoUpload struct {
	FileName    string
	ContentType string
	Data        io.Reader
}

// Form returns the set text fields keyed by their wire names.
func (p ProfileChanges) Form() map[string]string {
	form := map[string]string{}
	set := func(k string, v *string) {
		if v != nil {
			form[k] = *v
		}
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("email", p.Email)
	set("address", p.Address)
	set("contact_number", p.ContactNumber)
	set("birthday", p.Birthday)
	set("bio", p.Bio)
	return form
}

func (p ProfileChanges) IsEmpty() bool {
	return len(p.Form()) == 0 && p.Photo == nil
}
