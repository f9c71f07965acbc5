package weathersdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/overcastlabs/skycast/pkg/slogx"
)

// session holds the current identity and credential pair. It is the only
// writer of the credential keys in the keyring: memory and durable storage
// are updated together under the lock.
type session struct {
	mu      sync.RWMutex
	creds   Credentials
	user    string
	keyring Keyring
	parser  ExpiryParser
}

func newSession(keyring Keyring, parser ExpiryParser) *session {
	return &session{keyring: keyring, parser: parser}
}

func (s *session) credentials() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

func (s *session) username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// set replaces the credential pair and identity, persisting both.
func (s *session) set(ctx context.Context, creds Credentials, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.keyring.Set(ctx, KeyAccessToken, creds.AccessToken); err != nil {
		return fmt.Errorf("persist access token: %w", err)
	}
	if err := s.keyring.Set(ctx, KeyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}
	if err := s.keyring.Set(ctx, KeyUsername, username); err != nil {
		return fmt.Errorf("persist username: %w", err)
	}

	s.creds = creds
	s.user = username
	return nil
}

// clear drops the credential pair and identity from memory and storage.
func (s *session) clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.keyring.Delete(ctx, KeyAccessToken)
	_ = s.keyring.Delete(ctx, KeyRefreshToken)
	_ = s.keyring.Delete(ctx, KeyUsername)

	s.creds = Credentials{}
	s.user = ""
}

// load restores a persisted credential pair. An incomplete pair (one half
// missing) is treated as no credentials at all and wiped.
func (s *session) load(ctx context.Context) error {
	access, errA := s.keyring.Get(ctx, KeyAccessToken)
	refreshTok, errR := s.keyring.Get(ctx, KeyRefreshToken)

	if errors.Is(errA, ErrKeyNotFound) && errors.Is(errR, ErrKeyNotFound) {
		return nil
	}
	if errA != nil && !errors.Is(errA, ErrKeyNotFound) {
		return errA
	}
	if errR != nil && !errors.Is(errR, ErrKeyNotFound) {
		return errR
	}

	creds := Credentials{AccessToken: access, RefreshToken: refreshTok}
	if !creds.Valid() {
		s.clear(ctx)
		return nil
	}

	username, err := s.keyring.Get(ctx, KeyUsername)
	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		return err
	}

	s.mu.Lock()
	s.creds = creds
	s.user = username
	s.mu.Unlock()
	return nil
}

// Authenticated reports whether the client currently holds a credential
// pair. It says nothing about whether the server would still accept it.
func (c *Client) Authenticated() bool {
	return c.sess.credentials().Valid()
}

// Username returns the identity established at login, or "" when anonymous.
func (c *Client) Username() string {
	return c.sess.username()
}

// Resume restores a persisted session on process start. When the stored
// access token is past its expiry claim, or within the five-minute grace
// window of it, a refresh runs before the session is handed to callers.
func (c *Client) Resume(ctx context.Context) error {
	if err := c.sess.load(ctx); err != nil {
		return err
	}

	creds := c.sess.credentials()
	if !creds.Valid() {
		return nil
	}

	if expiringSoon(c.sess.parser, creds.AccessToken, time.Now()) {
		c.logger.InfoContext(ctx, "stored access token expiring, refreshing")
		return c.refreshCredentials(ctx)
	}
	return nil
}

// Login authenticates with username and password. Empty inputs fail with a
// ValidationError before any network I/O. On success the credential pair and
// identity are persisted and the session becomes authenticated.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return &ValidationError{Detail: "username and password are required"}
	}

	form := url.Values{
		"username": {username},
		"password": {password},
	}
	req := newRequest(http.MethodPost, "/v1/login").withForm(form)

	raw, err := c.legacy.roundTrip(slogx.WithRequestID(ctx, req.id), req, "")
	if err != nil {
		return err
	}

	var tok tokenResponse
	if err := decodeJSON(raw, &tok); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	creds := Credentials{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}
	if !creds.Valid() {
		return &AuthExpiredError{Err: ErrIncompletePair}
	}

	if err := c.sess.set(ctx, creds, username); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "logged in", "username", username)
	return nil
}

// Signup registers a new account. The payload is validated client-side
// first; server-side rejections (e.g. a duplicate username) surface as
// ValidationError with the server's detail message.
func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	payload := SignupRequest{Username: username, Email: email, Password: password}
	if err := c.validate.Struct(payload); err != nil {
		return signupValidationError(err)
	}

	req := newRequest(http.MethodPost, "/v1/user")
	body, err := marshalBody(payload)
	if err != nil {
		return err
	}

	_, err = c.legacy.roundTrip(slogx.WithRequestID(ctx, req.id), req.withBody(body), "")
	if err != nil {
		var he *HTTPError
		if errors.As(err, &he) && he.Status >= 400 && he.Status < 500 && he.Status != http.StatusUnauthorized {
			return &ValidationError{Detail: he.Detail}
		}
		return err
	}

	c.logger.InfoContext(ctx, "signed up", "username", username)
	return nil
}

// Logout invalidates the credential pair remotely on a best-effort basis;
// an unreachable server does not block local logout. It then clears the
// pair, the identity, and every cache.
func (c *Client) Logout(ctx context.Context) error {
	creds := c.sess.credentials()
	if creds.Valid() {
		body, err := marshalBody(map[string]string{
			"access_token":  creds.AccessToken,
			"refresh_token": creds.RefreshToken,
		})
		if err == nil {
			req := newRequest(http.MethodPost, "/v1/logout").withBody(body)
			if _, err := c.api.roundTrip(slogx.WithRequestID(ctx, req.id), req, creds.AccessToken); err != nil {
				c.logger.WarnContext(ctx, "remote logout failed, clearing local session anyway", "error", err)
			}
		}
	}

	c.sess.clear(ctx)
	_ = c.sess.keyring.Delete(ctx, KeyPreferences)
	c.clearCaches()
	c.logger.InfoContext(ctx, "logged out")
	return nil
}

// signupValidationError converts validator output into the SDK taxonomy.
func signupValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Detail: err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Detail: "signup payload rejected", Fields: fields}
}
