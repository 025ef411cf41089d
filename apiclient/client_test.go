package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-todo-client/apiclient"
	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
	"github.com/jrsteele09/go-todo-client/internal/utils"
	"github.com/jrsteele09/go-todo-client/todos"
	"github.com/jrsteele09/go-todo-client/users"
)

const testToken = "test-token"

type testFixture struct {
	srv      *httptest.Server
	client   *apiclient.Client
	mu       sync.Mutex
	rejected []string
	requests int
	lastReq  *http.Request
	lastBody []byte
}

// setupTestFixture serves every request with handler and records what arrived.
func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	f := &testFixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests++
		f.lastReq = r.Clone(context.Background())
		f.lastBody = body
		f.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)

	client, err := apiclient.New(f.srv.URL + "/")
	require.NoError(t, err)
	client.UseAuth(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: testToken}), func(token string) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.rejected = append(f.rejected, token)
	})
	f.client = client
	return f
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := apiclient.New("not a url")
	require.Error(t, err)
}

func TestNew_HTTPClientOptions(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		_, err := apiclient.New("http://localhost:1", apiclient.WithHTTPClient(nil))
		require.Error(t, err)
	})

	t.Run("given client is not modified", func(t *testing.T) {
		hc := &http.Client{}
		for _, opts := range [][]apiclient.Option{
			{apiclient.WithHTTPClient(hc), apiclient.WithTimeout(time.Second)},
			{apiclient.WithTimeout(time.Second), apiclient.WithHTTPClient(hc)},
		} {
			_, err := apiclient.New("http://localhost:1", opts...)
			require.NoError(t, err)
			require.Zero(t, hc.Timeout)
		}
		require.Zero(t, http.DefaultClient.Timeout)
	})

	t.Run("timeout applies whatever the option order", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		client, err := apiclient.New(srv.URL, apiclient.WithTimeout(50*time.Millisecond), apiclient.WithHTTPClient(&http.Client{}))
		require.NoError(t, err)
		_, err = client.Login(context.Background(), "ada@example.com", "pw")
		require.ErrorIs(t, err, apperrors.ErrTransport)
	})
}

func TestClient_SendsBearerAndRequestID(t *testing.T) {
	f := setupTestFixture(t, respond(http.StatusOK, `[]`))

	list, err := f.client.ListTodos(context.Background(), "milk & eggs")
	require.NoError(t, err)
	require.Empty(t, list)

	require.Equal(t, "Bearer "+testToken, f.lastReq.Header.Get("Authorization"))
	require.NotEmpty(t, f.lastReq.Header.Get(apiclient.RequestIDHeader))
	require.Equal(t, "/api/todos/", f.lastReq.URL.Path)
	require.Equal(t, "milk & eggs", f.lastReq.URL.Query().Get("search"))
}

func TestClient_LoginIsUnauthenticated(t *testing.T) {
	f := setupTestFixture(t, respond(http.StatusOK, `{"access":"abc"}`))

	body, err := f.client.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.JSONEq(t, `{"access":"abc"}`, string(body))
	require.Empty(t, f.lastReq.Header.Get("Authorization"))
	require.JSONEq(t, `{"email":"a@b.com","password":"pw"}`, string(f.lastBody))
}

func TestClient_ErrorNormalization(t *testing.T) {
	t.Run("login 4xx is invalid credentials", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden} {
			f := setupTestFixture(t, respond(status, `{"detail":"No active account found with the given credentials"}`))
			_, err := f.client.Login(context.Background(), "a@b.com", "bad")
			require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
			require.Empty(t, f.rejected)
		}
	})

	t.Run("401 reports the rejected token", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusUnauthorized, `{"detail":"Given token not valid for any token type"}`))
		_, err := f.client.Me(context.Background())
		require.ErrorIs(t, err, apperrors.ErrAuthentication)
		require.Equal(t, []string{testToken}, f.rejected)
	})

	t.Run("400 is a validation error", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusBadRequest, `{"title":["This field may not be blank."]}`))
		_, err := f.client.CreateTodo(context.Background(), todos.CreatePayload{Title: "x"})
		require.ErrorIs(t, err, apperrors.ErrValidation)
		require.Equal(t, "This field may not be blank.", apperrors.Fields(err)["title"])
	})

	t.Run("400 without a body still carries a message", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusBadRequest, ``))
		err := f.client.Signup(context.Background(), users.Registration{Email: "a@b.com"})
		require.Equal(t, "Bad Request", apperrors.Fields(err)[apperrors.GeneralField])
	})

	t.Run("404 is not found", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusNotFound, `{"detail":"Not found."}`))
		_, err := f.client.UpdateTodo(context.Background(), 7, todos.Patch{Title: utils.Ptr("x")})
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		require.Equal(t, "/api/todos/7/", f.lastReq.URL.Path)
		require.Equal(t, http.MethodPatch, f.lastReq.Method)
	})

	t.Run("5xx is transport", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusBadGateway, `upstream down`))
		err := f.client.DeleteTodo(context.Background(), 1)
		require.ErrorIs(t, err, apperrors.ErrTransport)
		var te *apperrors.TransportError
		require.ErrorAs(t, err, &te)
		require.Equal(t, http.StatusBadGateway, te.StatusCode)
	})

	t.Run("network failure is transport", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusOK, `[]`))
		f.srv.Close()
		_, err := f.client.ListTodos(context.Background(), "")
		require.ErrorIs(t, err, apperrors.ErrTransport)
		var te *apperrors.TransportError
		require.ErrorAs(t, err, &te)
		require.Equal(t, 0, te.StatusCode)
	})

	t.Run("malformed success body is transport", func(t *testing.T) {
		f := setupTestFixture(t, respond(http.StatusOK, `{"id": "x"}`))
		_, err := f.client.CreateTodo(context.Background(), todos.CreatePayload{Title: "x"})
		require.ErrorIs(t, err, apperrors.ErrTransport)
	})
}

func TestClient_NoTokenMakesNoRequest(t *testing.T) {
	f := setupTestFixture(t, respond(http.StatusOK, `[]`))
	f.client.UseAuth(nil, nil)

	_, err := f.client.ListTodos(context.Background(), "")
	require.ErrorIs(t, err, apperrors.ErrAuthentication)
	require.Equal(t, 0, f.requests)
}

func TestClient_UpdateMeMultipart(t *testing.T) {
	type received struct {
		firstName   string
		lastName    []string
		bio         []string
		fileName    string
		contentType string
		data        string
		err         error
	}
	got := make(chan received, 1)
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		var rec received
		defer func() { got <- rec }()
		if rec.err = r.ParseMultipartForm(1 << 20); rec.err != nil {
			return
		}
		rec.firstName = r.FormValue("first_name")
		rec.lastName = r.MultipartForm.Value["last_name"]
		rec.bio = r.MultipartForm.Value["bio"]
		file, header, err := r.FormFile(apiclient.PhotoField)
		if rec.err = err; err != nil {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		rec.data = string(data)
		rec.fileName = header.Filename
		rec.contentType = header.Header.Get("Content-Type")
		respond(http.StatusOK, `{"id":1,"first_name":"Ada","profile_image":"http://x/media/1.png"}`)(w, r)
	})

	body, err := f.client.UpdateMe(context.Background(), users.ProfileChanges{
		FirstName: utils.Ptr("Ada"),
		Bio:       utils.Ptr(""),
		Photo:     &users.PhotoUpload{FileName: "/tmp/me.png", ContentType: "image/png", Data: strings.NewReader("PNGDATA")},
	})
	require.NoError(t, err)
	require.Contains(t, string(body), "profile_image")

	rec := <-got
	require.NoError(t, rec.err)
	require.Equal(t, "Ada", rec.firstName)
	require.Empty(t, rec.lastName)
	require.Equal(t, []string{""}, rec.bio, "a field set to empty is sent")
	require.Equal(t, "PNGDATA", rec.data)
	require.Equal(t, "me.png", rec.fileName)
	require.Equal(t, "image/png", rec.contentType)
	require.Equal(t, http.MethodPatch, f.lastReq.Method)
	require.True(t, strings.HasPrefix(f.lastReq.Header.Get("Content-Type"), "multipart/form-data"))
}
