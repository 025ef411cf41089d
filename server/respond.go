package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sort"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the {"detail": "..."} body used for non-field errors.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeFieldErrors writes field errors with list values.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	body := make(map[string][]string, len(fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		body[k] = []string{fields[k]}
	}
	writeJSON(w, http.StatusBadRequest, body)
}

// writeError answers with a 400 for validation failures and a 500 otherwise.
func writeError(w http.ResponseWriter, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		writeFieldErrors(w, ve.Fields)
		return
	}
	writeDetail(w, http.StatusInternalServerError, err.Error())
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// decodeJSON reads a JSON body into v. Malformed bodies are a field-less 400.
func decodeJSON(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return apperrors.NewValidationError(apperrors.GeneralField, "JSON parse error - "+err.Error())
	}
	return nil
}

// formValues reads string fields from a JSON, urlencoded or multipart body.
func formValues(r *http.Request) (map[string]string, error) {
	values := map[string]string{}
	switch {
	case isMultipart(r):
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			return nil, apperrors.NewValidationError(apperrors.GeneralField, "Multipart form parse error - "+err.Error())
		}
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				values[k] = v[0]
			}
		}
	case isForm(r):
		if err := r.ParseForm(); err != nil {
			return nil, apperrors.NewValidationError(apperrors.GeneralField, "Form parse error - "+err.Error())
		}
		for k := range r.PostForm {
			values[k] = r.PostForm.Get(k)
		}
	default:
		var raw map[string]any
		if err := decodeJSON(r, &raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			if s, ok := v.(string); ok {
				values[k] = s
			}
		}
	}
	return values, nil
}
