// Package apiclient talks to the remote todo REST API and normalizes every failure
// into the internal/errors taxonomy.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	apperrors "github.com/jrsteele09/go-todo-client/internal/errors"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
	defaultTimeout  = 15 * time.Second
)

type Option func(*Client)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.l = l
	}
}

// WithHTTPClient makes requests through a copy of hc. hc itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout overrides the per request timeout, whatever client is in use.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	l       zerolog.Logger

	authLock   sync.RWMutex
	tokens     oauth2.TokenSource
	onRejected func(token string)
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient.New] invalid base url %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		l:       log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		return nil, errors.New("[apiclient.New] http client is required")
	}
	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc
	return c, nil
}

// UseAuth sets where bearer tokens come from. onRejected is told about every 401
// together with the token the rejected request carried.
func (c *Client) UseAuth(ts oauth2.TokenSource, onRejected func(token string)) {
	c.authLock.Lock()
	defer c.authLock.Unlock()
	c.tokens = ts
	c.onRejected = onRejected
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type call struct {
	op            string
	method        string
	path          string
	query         url.Values
	body          io.Reader
	contentType   string
	authenticated bool
	credentials   bool // a 4xx means the submitted credentials were refused
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	endpoint := c.baseURL + cl.path
	if len(cl.query) > 0 {
		endpoint += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint, cl.body)
	if err != nil {
		return nil, errors.Wrapf(&apperrors.TransportError{Err: err}, "[Client.%s]", cl.op)
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	var sent string
	if cl.authenticated {
		tok, err := c.token()
		if err != nil {
			return nil, errors.Wrapf(err, "[Client.%s]", cl.op)
		}
		tok.SetAuthHeader(req)
		sent = tok.AccessToken
	}

	l := c.l.With().Str("request_id", requestID).Str("method", cl.method).Str("path", cl.path).Logger()
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		l.Debug().Err(err).Msg("request failed")
		return nil, errors.Wrapf(&apperrors.TransportError{Err: err}, "[Client.%s]", cl.op)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrapf(&apperrors.TransportError{StatusCode: resp.StatusCode, Err: err}, "[Client.%s] read body", cl.op)
	}
	l.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request complete")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	if resp.StatusCode == http.StatusUnauthorized && cl.authenticated {
		c.rejected(sent)
	}
	return nil, errors.Wrapf(statusError(resp.StatusCode, body, cl.credentials), "[Client.%s]", cl.op)
}

// token fails with ErrAuthentication, without touching the network, when no token is held.
func (c *Client) token() (*oauth2.Token, error) {
	c.authLock.RLock()
	ts := c.tokens
	c.authLock.RUnlock()
	if ts == nil {
		return nil, apperrors.ErrAuthentication
	}
	tok, err := ts.Token()
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrAuthentication, err.Error())
	}
	if tok == nil || tok.AccessToken == "" {
		return nil, apperrors.ErrAuthentication
	}
	return tok, nil
}

func (c *Client) rejected(token string) {
	c.authLock.RLock()
	fn := c.onRejected
	c.authLock.RUnlock()
	if fn != nil {
		fn(token)
	}
}
