package server

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxPhotoBytes = 8 << 20

type mediaFile struct {
	contentType string
	data        []byte
	stored      time.Time
}

// mediaStore keeps uploaded profile images in memory.
type mediaStore struct {
	lock  sync.RWMutex
	files map[string]mediaFile
}

func newMediaStore() *mediaStore {
	return &mediaStore{files: make(map[string]mediaFile)}
}

// put stores the upload under a fresh name keeping the original extension.
func (ms *mediaStore) put(fileName, contentType string, r io.Reader, now time.Time) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxPhotoBytes))
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fileName))

	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.files[name] = mediaFile{contentType: contentType, data: data, stored: now}
	return name, nil
}

func (ms *mediaStore) get(name string) (mediaFile, bool) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	f, ok := ms.files[name]
	return f, ok
}

// MediaHandler serves uploaded profile images.
func (s *Server) MediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		f, ok := s.media.get(name)
		if !ok {
			writeDetail(w, http.StatusNotFound, "Not found.")
			return
		}
		w.Header().Set("Content-Type", f.contentType)
		http.ServeContent(w, r, name, f.stored, bytes.NewReader(f.data))
	}
}
