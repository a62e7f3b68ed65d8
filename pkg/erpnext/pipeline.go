package erpnext

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	httpclient "github.com/natserract/erpnext/pkg/http"
	"go.uber.org/zap"
)

// Record is one document, passed through as-is.
type Record map[string]any

// Operation describes a single call against /api/resource.
type Operation struct {
	Method   string
	Resource string
	// Name selects a single document. Empty for create and list calls.
	Name    string
	Payload Record
	Query   *ListOptions
}

// Envelope is the JSON wrapper around every response body.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message json.RawMessage `json:"message,omitempty"`
}

// Execute logs in, sends the operation and decodes the response envelope.
// Failures are returned as *Error.
func (e *ERPNext) Execute(ctx context.Context, op Operation) (*Envelope, error) {
	if err := e.ensureSession(ctx); err != nil {
		return nil, err
	}

	resp, err := e.dispatch(ctx, op)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && e.config.ReuseSession {
		e.logger.Info("Session rejected, authenticating again",
			zap.String("resource", op.Resource),
			zap.String("request_id", resp.RequestID))
		e.session.set(false)
		if err := e.Authenticate(ctx); err != nil {
			return nil, err
		}
		if resp, err = e.dispatch(ctx, op); err != nil {
			return nil, err
		}
	}

	if !successful(resp.StatusCode) {
		classified := e.classifier.Classify(false, resp.StatusCode, resp.Body, nil)
		// Only reads can be answered with "does not exist"; a write against a
		// missing document is a failed request.
		if classified.Kind == KindNotFound && op.Method != http.MethodGet {
			classified.Kind = KindTransport
			classified.Message = fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, resp.Body)
		}
		e.logger.Error("ERPNext request failed",
			zap.String("method", op.Method),
			zap.String("resource", op.Resource),
			zap.String("name", op.Name),
			zap.Int("status_code", resp.StatusCode),
			zap.Stringer("kind", classified.Kind),
			zap.String("request_id", resp.RequestID))
		return nil, classified
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		e.logger.Error("Failed to parse response", zap.Error(err), zap.String("request_id", resp.RequestID))
		return nil, &Error{
			Kind:       KindDecode,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to parse %s response: %v", op.Resource, err),
			Body:       string(resp.Body),
			Err:        err,
		}
	}

	return &env, nil
}

func (e *ERPNext) dispatch(ctx context.Context, op Operation) (*httpclient.Response, error) {
	if op.Resource == "" {
		return nil, &Error{Kind: KindTransport, Message: "resource is required"}
	}

	segments := []string{"api", "resource", op.Resource}
	if op.Name != "" {
		segments = append(segments, op.Name)
	}

	var query url.Values
	if op.Query != nil {
		q, err := op.Query.values()
		if err != nil {
			return nil, &Error{Kind: KindTransport, Message: err.Error(), Err: err}
		}
		query = q
	}

	endpoint, err := httpclient.BuildURL(e.baseURL, query, segments...)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("failed to build URL: %v", err), Err: err}
	}

	var form url.Values
	if op.Payload != nil {
		data, err := json.Marshal(op.Payload)
		if err != nil {
			return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("failed to encode %s record: %v", op.Resource, err), Err: err}
		}
		form = url.Values{"data": {string(data)}}
	}

	e.logger.Debug("Making ERPNext request",
		zap.String("method", op.Method),
		zap.String("endpoint", endpoint))

	var resp *httpclient.Response
	switch op.Method {
	case http.MethodGet:
		resp, err = e.httpClient.Get(ctx, endpoint, nil)
	case http.MethodPost:
		resp, err = e.httpClient.Post(ctx, endpoint, nil, form)
	case http.MethodPut:
		resp, err = e.httpClient.Put(ctx, endpoint, nil, form)
	case http.MethodDelete:
		resp, err = e.httpClient.Delete(ctx, endpoint, nil)
	default:
		return nil, &Error{Kind: KindTransport, Message: fmt.Sprintf("unsupported method %q", op.Method)}
	}
	if err != nil {
		e.logger.Error("ERPNext request failed", zap.Error(err), zap.String("endpoint", endpoint))
		return nil, e.classifier.Classify(false, 0, nil, err)
	}
	return resp, nil
}

func decodeRecord(resource string, raw json.RawMessage) (Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, &Error{
			Kind:    KindDecode,
			Message: fmt.Sprintf("failed to parse %s record: %v", resource, err),
			Body:    string(raw),
			Err:     err,
		}
	}
	return rec, nil
}

func decodeRecords(resource string, raw json.RawMessage) ([]Record, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []Record{}, nil
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, &Error{
			Kind:    KindDecode,
			Message: fmt.Sprintf("failed to parse %s list: %v", resource, err),
			Body:    string(raw),
			Err:     err,
		}
	}
	return recs, nil
}
