package apiclient

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

// flatMessageKeys are the keys a server uses for a message not tied to a field, in
// priority order.
var flatMessageKeys = []string{"detail", "message", "error"}

// statusError maps a non-2xx response onto the error taxonomy.
func statusError(status int, body []byte, credentials bool) error {
	fields := FieldErrors(body)
	msg := fields[apperrors.GeneralField]
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case credentials && status >= 400 && status < 500:
		return errors.Wrap(apperrors.ErrInvalidCredentials, msg)
	case status == http.StatusUnauthorized:
		return errors.Wrap(apperrors.ErrAuthentication, msg)
	case status == http.StatusBadRequest:
		if len(fields) == 0 {
			fields = map[string]string{apperrors.GeneralField: msg}
		}
		return &apperrors.ValidationError{Fields: fields}
	case status == http.StatusNotFound:
		return errors.Wrap(apperrors.ErrNotFound, msg)
	default:
		return &apperrors.TransportError{StatusCode: status, Err: errors.New(msg)}
	}
}

// FieldErrors normalizes an error body into field -> message. It accepts
//
//	{"email": "taken"}                      plain map
//	{"email": ["taken", "invalid"]}         array valued fields
//	{"errors": {"email": ["taken"]}}        nested errors object
//	{"detail": "..."} / "message" / "error" flat message, under non_field_errors
//	["..."] or plain text                   flat message, under non_field_errors
//
// Array values keep their first message.
func FieldErrors(body []byte) map[string]string {
	body = []byte(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if msg := messageOf(body); msg != "" {
			return map[string]string{apperrors.GeneralField: msg}
		}
		if body[0] != '{' && body[0] != '[' && body[0] != '<' {
			return map[string]string{apperrors.GeneralField: string(body)}
		}
		return nil
	}

	fields := map[string]string{}
	if nested, ok := raw["errors"]; ok {
		delete(raw, "errors")
		var inner map[string]json.RawMessage
		if json.Unmarshal(nested, &inner) == nil {
			for k, v := range inner {
				raw[k] = v
			}
		} else if msg := messageOf(nested); msg != "" {
			fields[apperrors.GeneralField] = msg
		}
	}

	for _, k := range flatMessageKeys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		delete(raw, k)
		if _, set := fields[apperrors.GeneralField]; set {
			continue
		}
		if msg := messageOf(v); msg != "" {
			fields[apperrors.GeneralField] = msg
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		msg := messageOf(raw[k])
		if msg == "" {
			continue
		}
		if k == apperrors.GeneralField && fields[k] != "" {
			continue
		}
		fields[k] = msg
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// messageOf returns a string value, or the first string of an array.
func messageOf(v json.RawMessage) string {
	var s string
	if json.Unmarshal(v, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if json.Unmarshal(v, &list) == nil {
		for _, item := range list {
			if msg := messageOf(item); msg != "" {
				return msg
			}
		}
	}
	return ""
}
