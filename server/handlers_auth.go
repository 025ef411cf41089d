package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/jrsteele09/go-todo-client/users"
)

const blankMessage = "This field may not be blank."

// LoginHandler exchanges email and password for an access token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := formValues(r)
		if err != nil {
			writeError(w, err)
			return
		}
		email, password := strings.TrimSpace(form["email"]), form["password"]
		fields := map[string]string{}
		if email == "" {
			fields["email"] = blankMessage
		}
		if password == "" {
			fields["password"] = blankMessage
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		account, err := s.repos.Accounts.GetByEmail(email)
		if err != nil || !users.CheckPasswordHash(password, account.PasswordHash) {
			writeDetail(w, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}

		accessToken, err := s.creator.CreateAccessToken(account.ID, account.Email)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		account.LastLogin = s.nowTime()
		if err := s.repos.Accounts.Update(account); err != nil {
			s.l.Warn().Err(err).Int("user_id", account.ID).Msg("unable to record last login")
		}
		writeJSON(w, http.StatusOK, map[string]string{s.tokenField: accessToken})
	}
}

// SignupHandler registers an account. It does not log the user in.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg users.Registration
		if err := decodeJSON(r, &reg); err != nil {
			writeError(w, err)
			return
		}
		reg.Email = strings.TrimSpace(reg.Email)

		fields := map[string]string{}
		if msg := emailProblem(reg.Email); msg != "" {
			fields["email"] = msg
		}
		if reg.Password == "" {
			fields["password"] = blankMessage
		} else if err := users.ValidatePasswordStrength(reg.Password); err != nil {
			fields["password"] = err.Error()
		}
		if strings.TrimSpace(reg.FirstName) == "" {
			fields["first_name"] = blankMessage
		}
		if strings.TrimSpace(reg.LastName) == "" {
			fields["last_name"] = blankMessage
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		hash, err := users.HashPassword(reg.Password)
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		account := &users.Account{
			User: users.User{
				Email:     reg.Email,
				FirstName: strings.TrimSpace(reg.FirstName),
				LastName:  strings.TrimSpace(reg.LastName),
			},
			PasswordHash: hash,
			DateJoined:   s.nowTime(),
		}
		if err := s.repos.Accounts.Insert(account); err != nil {
			if errors.Is(err, users.ErrEmailExists) {
				writeFieldErrors(w, map[string]string{"email": "user with this email already exists."})
				return
			}
			writeDetail(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, account.User)
	}
}

func emailProblem(email string) string {
	if email == "" {
		return blankMessage
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Enter a valid email address."
	}
	return ""
}

// ChangePasswordHandler replaces the password of the authenticated user.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			OldPassword string `json:"old_password"`
			NewPassword string `json:"new_password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, err)
			return
		}
		account, err := s.repos.Accounts.GetByID(userIDFrom(r.Context()))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		if !users.CheckPasswordHash(body.OldPassword, account.PasswordHash) {
			writeFieldErrors(w, map[string]string{"old_password": "Wrong password."})
			return
		}
		if err := users.ValidatePasswordStrength(body.NewPassword); err != nil {
			writeFieldErrors(w, map[string]string{"new_password": err.Error()})
			return
		}
		if account.PasswordHash, err = users.HashPassword(body.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		if err := s.repos.Accounts.Update(account); err != nil {
			writeError(w, err)
			return
		}
		writeDetail(w, http.StatusOK, "Password updated successfully.")
	}
}
