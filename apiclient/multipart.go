package apiclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrsteele09/go-todo-client/users"
)

// PhotoField is the multipart part name of the profile image.
const PhotoField = "profile_image"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func profileForm(changes users.ProfileChanges) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	form := changes.Form()
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, form[k]); err != nil {
			return nil, "", err
		}
	}

	if p := changes.Photo; p != nil && p.Data != nil {
		name := filepath.Base(p.FileName)
		if name == "." || name == string(filepath.Separator) {
			name = "photo"
		}
		contentType := p.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, PhotoField, quoteEscaper.Replace(name)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, p.Data); err != nil {
			return nil, "", fmt.Errorf("read photo: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
