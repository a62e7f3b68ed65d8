package erpnext

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	httpclient "github.com/natserract/erpnext/pkg/http"
	"go.uber.org/zap"
)

// session tracks whether the cookie jar holds a session that has not been
// rejected yet. It is only consulted when Config.ReuseSession is set.
type session struct {
	mu          sync.RWMutex
	established bool
}

func (s *session) valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.established
}

func (s *session) set(established bool) {
	s.mu.Lock()
	s.established = established
	s.mu.Unlock()
}

// LoginResponse is the body returned by the login endpoint. Raw always holds
// the body as received.
type LoginResponse struct {
	Message  string `json:"message"`
	HomePage string `json:"home_page"`
	FullName string `json:"full_name"`
	Raw      []byte `json:"-"`
}

// Authenticate logs in with the configured credentials. On success the
// client cookie jar holds a fresh session cookie. Calling it repeatedly is
// safe; every call performs a login round trip.
func (e *ERPNext) Authenticate(ctx context.Context) error {
	_, err := e.Login(ctx)
	return err
}

// Login is Authenticate returning the login response.
func (e *ERPNext) Login(ctx context.Context) (*LoginResponse, error) {
	endpoint, err := httpclient.BuildURL(e.baseURL, nil, "api", "method", "login")
	if err != nil {
		return nil, e.classifier.Classify(true, 0, nil, err)
	}

	e.logger.Info("Authenticating with ERPNext",
		zap.String("url", endpoint),
		zap.String("username", e.config.Username))

	form := url.Values{
		"usr": {e.config.Username},
		"pwd": {e.config.Password},
	}

	resp, err := e.httpClient.Post(ctx, endpoint, nil, form)
	if err != nil {
		e.session.set(false)
		e.logger.Error("Authentication request failed", zap.Error(err), zap.String("url", endpoint))
		return nil, e.classifier.Classify(true, 0, nil, err)
	}

	if !successful(resp.StatusCode) {
		e.session.set(false)
		e.logger.Error("Authentication failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("request_id", resp.RequestID))
		return nil, e.classifier.Classify(true, resp.StatusCode, resp.Body, nil)
	}

	loginResp := &LoginResponse{Raw: resp.Body}
	// The session cookie is what matters; an unexpected body is only logged.
	if err := json.Unmarshal(resp.Body, loginResp); err != nil {
		e.logger.Warn("Unexpected login response body", zap.Error(err))
	}

	e.session.set(true)
	e.logger.Info("Successfully authenticated",
		zap.String("full_name", loginResp.FullName),
		zap.String("request_id", resp.RequestID))

	return loginResp, nil
}

// ensureSession logs in unless session reuse is enabled and the current
// session has not been rejected.
func (e *ERPNext) ensureSession(ctx context.Context) error {
	if e.config.ReuseSession && e.session.valid() {
		e.logger.Debug("Reusing session")
		return nil
	}
	return e.Authenticate(ctx)
}

func successful(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
