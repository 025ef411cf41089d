package server

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-todo-client/internal/config"
	"github.com/jrsteele09/go-todo-client/users"
)

// InitialiseSystem creates the seed account from config when one is configured and
// does not exist yet.
func (s *Server) InitialiseSystem(cfg config.Config) error {
	email, password := cfg.GetSeedAccount()
	if email == "" {
		return nil
	}
	if _, err := s.repos.Accounts.GetByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, users.ErrNotFound) {
		return fmt.Errorf("[Server InitialiseSystem] lookup seed account: %w", err)
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] hash seed password: %w", err)
	}
	account := &users.Account{
		User:         users.User{Email: email, FirstName: "Demo", LastName: "User"},
		PasswordHash: hash,
		DateJoined:   s.nowTime(),
	}
	if err := s.repos.Accounts.Insert(account); err != nil {
		return fmt.Errorf("[Server InitialiseSystem] create seed account: %w", err)
	}
	s.l.Info().Str("email", email).Msg("seed account created")
	return nil
}
