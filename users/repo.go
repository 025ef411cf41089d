package users

import "github.com/pkg/errors"

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("user with this email already exists")
)

// AccountRepo stores the accounts served by the mock API.
type AccountRepo interface {
	// Insert assigns an ID and stores the account. Emails are unique.
	Insert(account *Account) error
	Update(account *Account) error
	GetByEmail(email string) (*Account, error)
	GetByID(id int) (*Account, error)
}
