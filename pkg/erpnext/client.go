// Package erpnext provides a client for the ERPNext (Frappe) REST API.
//
// ERPNext exposes every document type (Company, Employee, Customer, Lead,
// Sales Order, Purchase Invoice, ...) under a uniform resource path:
//
//	/api/resource/{Resource}
//	/api/resource/{Resource}/{name}
//
// Authentication is a form login against /api/method/login that sets a
// session cookie. The client keeps that cookie in a jar owned by the client
// instance and logs in again before each operation, so callers never deal
// with session expiry.
//
// Server failures are classified into a small set of error kinds (see Kind).
// Lookups by name or filter report a missing record as a nil result, not an
// error.
package erpnext

import (
	"fmt"
	"net/http/cookiejar"
	"strings"

	httpclient "github.com/natserract/erpnext/pkg/http"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// ERPNext is the main client for interacting with the ERPNext REST API
type ERPNext struct {
	config     *Config
	baseURL    string
	httpClient *httpclient.Client
	session    *session
	classifier ErrorClassifier
	logger     *zap.Logger
}

// NewERPNext creates a new ERPNext client with default production logger
func NewERPNext(cfg *Config) (*ERPNext, error) {
	logger, _ := zap.NewProduction()
	return NewERPNextWithLogger(cfg, logger)
}

// NewERPNextWithLogger creates a new ERPNext client with a custom logger.
// Each client owns its own cookie jar.
func NewERPNextWithLogger(cfg *Config, logger *zap.Logger) (*ERPNext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &ERPNext{
		config:  cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpclient.NewClientWithLogger(logger, jar,
			httpclient.WithTimeout(cfg.Timeout),
			httpclient.WithMaxRetries(cfg.MaxRetries),
		),
		session:    &session{},
		classifier: DefaultClassifier,
		logger:     logger,
	}, nil
}
