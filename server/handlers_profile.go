package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-todo-client/users"
)

// profileFields are the editable text fields of PATCH /api/users/me/.
var profileFields = []string{"first_name", "last_name", "email", "address", "contact_number", "birthday", "bio"}

// MeHandler returns the authenticated user. Only profile_image is sent; clients
// derive photo from it.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.repos.Accounts.GetByID(userIDFrom(r.Context()))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		writeJSON(w, http.StatusOK, account.User)
	}
}

// UpdateMeHandler applies a partial profile update sent as JSON or multipart. A
// multipart "profile_image" file replaces the profile image.
func (s *Server) UpdateMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.repos.Accounts.GetByID(userIDFrom(r.Context()))
		if err != nil {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		form, err := formValues(r)
		if err != nil {
			writeError(w, err)
			return
		}

		fields := map[string]string{}
		for _, name := range profileFields {
			v, ok := form[name]
			if !ok {
				continue
			}
			v = strings.TrimSpace(v)
			switch name {
			case "first_name":
				account.FirstName = v
			case "last_name":
				account.LastName = v
			case "email":
				if msg := emailProblem(v); msg != "" {
					fields["email"] = msg
				}
				account.Email = v
			case "address":
				account.Address = v
			case "contact_number":
				account.ContactNumber = v
			case "birthday":
				if v != "" {
					if _, err := time.Parse("2006-01-02", v); err != nil {
						fields["birthday"] = "Date has wrong format. Use YYYY-MM-DD."
					}
				}
				account.Birthday = v
			case "bio":
				account.Bio = v
			}
		}
		if len(fields) > 0 {
			writeFieldErrors(w, fields)
			return
		}

		if isMultipart(r) {
			if file, header, err := r.FormFile("profile_image"); err == nil {
				defer file.Close()
				name, err := s.media.put(header.Filename, header.Header.Get("Content-Type"), file, s.nowTime())
				if err != nil {
					writeError(w, err)
					return
				}
				account.ProfileImage = getScheme(r) + "://" + r.Host + mediaPrefix + name
			} else if !errors.Is(err, http.ErrMissingFile) {
				writeError(w, err)
				return
			}
		}

		if err := s.repos.Accounts.Update(account); err != nil {
			if errors.Is(err, users.ErrEmailExists) {
				writeFieldErrors(w, map[string]string{"email": "user with this email already exists."})
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, account.User)
	}
}
