package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-querystring/query"

	"mytube/domain/model"
	"mytube/domain/repository"
	"mytube/infrastructure/logger"
)

// Config points at a Supabase-compatible backend.
type Config struct {
	URL     string `json:"url"`
	AnonKey string `json:"anon_key"`
}

// Client talks to the hosted identity service: the auth endpoints and the
// profiles table. One Client is bound to one browsing session; it holds the
// current token bundle and notifies subscribers on session changes.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu           sync.RWMutex
	session      *model.Session
	restoreToken string
	subs         map[int]func(model.AuthEvent)
	nextSubID    int
}

func NewClient(cfg *Config) *Client {
	return &Client{
		baseURL: cfg.URL,
		anonKey: cfg.AnonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		subs:    make(map[int]func(model.AuthEvent)),
	}
}

// WithAccessToken seeds the client with a token carried over from a previous
// visit. GetSession validates it against the service before trusting it.
func (c *Client) WithAccessToken(token string) *Client {
	c.mu.Lock()
	c.restoreToken = token
	c.mu.Unlock()
	return c
}

// GetSession returns the current session, validating a carried-over token on
// first use. A signed-out client yields (nil, nil).
func (c *Client) GetSession(ctx context.Context) (*model.Session, error) {
	c.mu.RLock()
	sess, restore := c.session, c.restoreToken
	c.mu.RUnlock()
	if sess != nil {
		return sess, nil
	}
	if restore == "" {
		return nil, nil
	}

	user, err := c.fetchUser(ctx, restore)
	if err != nil {
		// Stale or forged token: treat as signed out.
		logger.GetLogger().WithField("error", err).Warn("session restore rejected by identity service")
		c.mu.Lock()
		c.restoreToken = ""
		c.mu.Unlock()
		return nil, nil
	}
	sess = &model.Session{AccessToken: restore, TokenType: "bearer", User: user}
	c.mu.Lock()
	c.session = sess
	c.restoreToken = ""
	c.mu.Unlock()
	return sess, nil
}

// SignUp creates an account. The resulting session becomes current and a
// SIGNED_IN notification goes out.
func (c *Client) SignUp(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := c.authRequest(ctx, "/auth/v1/signup", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	c.setSession(sess)
	c.emit(model.AuthEvent{Type: model.AuthSignedIn, Session: sess})
	return sess, nil
}

// SignInWithPassword validates credentials and establishes a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	sess, err := c.authRequest(ctx, "/auth/v1/token", "password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	c.setSession(sess)
	c.emit(model.AuthEvent{Type: model.AuthSignedIn, Session: sess})
	return sess, nil
}

// SignOut revokes the session remotely and emits SIGNED_OUT. Local state is
// cleared regardless of the remote outcome.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.session = nil
	c.mu.Unlock()

	var err error
	if sess != nil {
		err = c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", sess.AccessToken, nil, nil)
	}
	c.emit(model.AuthEvent{Type: model.AuthSignedOut})
	return err
}

// RefreshSession exchanges the refresh token for a new token bundle.
func (c *Client) RefreshSession(ctx context.Context) (*model.Session, error) {
	c.mu.RLock()
	sess := c.session
	c.mu.RUnlock()
	if sess == nil || sess.RefreshToken == "" {
		return nil, errors.New("no session to refresh")
	}
	next, err := c.authRequest(ctx, "/auth/v1/token", "refresh_token", map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	c.setSession(next)
	c.emit(model.AuthEvent{Type: model.AuthTokenRefreshed, Session: next})
	return next, nil
}

// OnAuthStateChange registers fn for session-change notifications until the
// returned subscription is released.
func (c *Client) OnAuthStateChange(fn func(model.AuthEvent)) repository.IAuthSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	return &subscription{client: c, id: id}
}

type subscription struct {
	client *Client
	id     int
	once   sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.mu.Lock()
		delete(s.client.subs, s.id)
		s.client.mu.Unlock()
	})
}

// profileQuery encodes the PostgREST filter for a single profile row.
type profileQuery struct {
	Select string `url:"select"`
	ID     string `url:"id"`
}

// GetProfile reads the profile row for the user id.
func (c *Client) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	q, err := query.Values(profileQuery{Select: "*", ID: "eq." + userID})
	if err != nil {
		return nil, err
	}
	var rows []model.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/rest/v1/profiles?"+q.Encode(), c.accessToken(), nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile not found for user %s", userID)
	}
	return &rows[0], nil
}

// UpsertProfile creates or replaces the profile row.
func (c *Client) UpsertProfile(ctx context.Context, profile *model.Profile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/profiles", bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, c.accessToken())
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	return nil
}

func (c *Client) accessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return ""
}

func (c *Client) setSession(sess *model.Session) {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
}

func (c *Client) emit(evt model.AuthEvent) {
	c.mu.RLock()
	fns := make([]func(model.AuthEvent), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()
	for _, fn := range fns {
		fn(evt)
	}
}

// authRequest posts to a GoTrue endpoint and decodes the session bundle.
// grantType is appended as a query parameter when non-empty.
func (c *Client) authRequest(ctx context.Context, path, grantType string, payload map[string]string) (*model.Session, error) {
	if grantType != "" {
		path = path + "?grant_type=" + grantType
	}
	var sess model.Session
	if err := c.doJSON(ctx, http.MethodPost, path, "", payload, &sess); err != nil {
		return nil, err
	}
	if sess.User == nil {
		return nil, errors.New("identity service returned no user")
	}
	return &sess, nil
}

func (c *Client) fetchUser(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/v1/user", token, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("identity service returned no user id")
	}
	return &user, nil
}

// doJSON performs one request against the identity service. Failures carry
// the remote error message verbatim so the auth overlay can show it.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// readAPIError extracts the service's error message from a failed response.
func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var apiErr struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(raw, &apiErr) == nil {
		switch {
		case apiErr.ErrorDescription != "":
			return errors.New(apiErr.ErrorDescription)
		case apiErr.Message != "":
			return errors.New(apiErr.Message)
		case apiErr.Msg != "":
			return errors.New(apiErr.Msg)
		}
	}
	return fmt.Errorf("identity service error: status %d", resp.StatusCode)
}
