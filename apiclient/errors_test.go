package apiclient_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-todo-client/apiclient"
)

func TestFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string
	}{
		{
			name: "plain map",
			body: `{"email": "Enter a valid email address."}`,
			want: map[string]string{"email": "Enter a valid email address."},
		},
		{
			name: "array valued fields keep the first message",
			body: `{"email": ["user with this email already exists.", "second"], "password": ["Too short."]}`,
			want: map[string]string{"email": "user with this email already exists.", "password": "Too short."},
		},
		{
			name: "nested errors object",
			body: `{"errors": {"first_name": ["This field may not be blank."]}}`,
			want: map[string]string{"first_name": "This field may not be blank."},
		},
		{
			name: "detail",
			body: `{"detail": "Signups are closed."}`,
			want: map[string]string{"non_field_errors": "Signups are closed."},
		},
		{
			name: "detail wins over message and error",
			body: `{"error": "e", "message": "m", "detail": "d"}`,
			want: map[string]string{"non_field_errors": "d"},
		},
		{
			name: "message alongside fields",
			body: `{"message": "Invalid input.", "title": ["This field may not be blank."]}`,
			want: map[string]string{"non_field_errors": "Invalid input.", "title": "This field may not be blank."},
		},
		{
			name: "non_field_errors list",
			body: `{"non_field_errors": ["Passwords do not match."]}`,
			want: map[string]string{"non_field_errors": "Passwords do not match."},
		},
		{
			name: "top level list",
			body: `["Something went wrong."]`,
			want: map[string]string{"non_field_errors": "Something went wrong."},
		},
		{
			name: "plain text",
			body: `Bad Request`,
			want: map[string]string{"non_field_errors": "Bad Request"},
		},
		{
			name: "html is ignored",
			body: `<html><body>oops</body></html>`,
			want: nil,
		},
		{
			name: "empty",
			body: ``,
			want: nil,
		},
		{
			name: "non string values are skipped",
			body: `{"code": 17, "email": ["taken"]}`,
			want: map[string]string{"email": "taken"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, apiclient.FieldErrors([]byte(tt.body)))
		})
	}
}
