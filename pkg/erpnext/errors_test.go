package erpnext

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	errRefused := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")

	tests := []struct {
		name       string
		login      bool
		statusCode int
		body       string
		cause      error
		wantKind   Kind
		wantErr    error
		wantMsg    string
	}{
		{
			name:       "unauthorized login",
			login:      true,
			statusCode: http.StatusUnauthorized,
			body:       `{"message":"Incorrect password"}`,
			wantKind:   KindAuth,
			wantErr:    ErrAuth,
			wantMsg:    "Authorization Error, you have entered an invalid password",
		},
		{
			name:       "unauthorized resource call",
			statusCode: http.StatusUnauthorized,
			body:       `{"exc_type":"PermissionError"}`,
			wantKind:   KindTransport,
			wantErr:    ErrTransport,
			wantMsg:    `request failed with status 401: {"exc_type":"PermissionError"}`,
		},
		{
			name:       "validation error",
			statusCode: http.StatusExpectationFailed,
			body:       "...ValidationError: Field X is required...",
			wantKind:   KindValidation,
			wantErr:    ErrValidation,
			wantMsg:    "Validation Error: Field X is required",
		},
		{
			name:       "validation error in html traceback",
			statusCode: http.StatusExpectationFailed,
			body:       "<pre>Traceback (most recent call last):\nfrappe.exceptions.ValidationError: Posting Date cannot be after today.\n</pre>",
			wantKind:   KindValidation,
			wantMsg:    "Validation Error: Posting Date cannot be after today",
		},
		{
			name:       "validation error with escaped newlines",
			statusCode: http.StatusExpectationFailed,
			body:       `{"exc":"[\"Traceback\\nfrappe.exceptions.ValidationError: Row 1: Qty is mandatory\\n\"]"}`,
			wantKind:   KindValidation,
			wantMsg:    "Validation Error: Row 1: Qty is mandatory",
		},
		{
			name:       "validation reason with markup",
			statusCode: http.StatusExpectationFailed,
			body:       "<pre>frappe.exceptions.ValidationError: Item <strong>Widget</strong> is disabled\n</pre>",
			wantKind:   KindValidation,
			wantMsg:    "Validation Error: Item Widget is disabled",
		},
		{
			name:       "validation reason with escaped quotes",
			statusCode: http.StatusExpectationFailed,
			body:       `ValidationError: Customer \"Acme\" is frozen`,
			wantKind:   KindValidation,
			wantMsg:    `Validation Error: Customer "Acme" is frozen`,
		},
		{
			name:       "validation reason from json exception field",
			statusCode: http.StatusExpectationFailed,
			body:       `{"exc_type":"ValidationError","exception":"frappe.exceptions.ValidationError: Customer \"Acme\" is frozen for <strong>Sales</strong>","exc":"[\"Traceback\"]"}`,
			wantKind:   KindValidation,
			wantMsg:    `Validation Error: Customer "Acme" is frozen for Sales`,
		},
		{
			name:       "417 without validation trace",
			statusCode: http.StatusExpectationFailed,
			body:       `{"exc_type":"MandatoryError"}`,
			wantKind:   KindTransport,
			wantErr:    ErrTransport,
			wantMsg:    `request failed with status 417: {"exc_type":"MandatoryError"}`,
		},
		{
			name:       "duplicate entry",
			statusCode: http.StatusConflict,
			body:       "...Duplicate entry 'ABC-001' for key...",
			wantKind:   KindDuplicateEntry,
			wantErr:    ErrDuplicateEntry,
			wantMsg:    "Duplicate Entry on ABC-001",
		},
		{
			name:       "conflict without duplicate key",
			statusCode: http.StatusConflict,
			body:       `{"exc_type":"TimestampMismatchError"}`,
			wantKind:   KindConflict,
			wantErr:    ErrConflict,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       `{"exc_type":"DoesNotExistError"}`,
			wantKind:   KindNotFound,
			wantErr:    ErrNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			body:       "bad gateway",
			wantKind:   KindTransport,
			wantErr:    ErrTransport,
			wantMsg:    "request failed with status 502: bad gateway",
		},
		{
			name:     "network failure",
			cause:    errRefused,
			wantKind: KindTransport,
			wantErr:  errRefused,
			wantMsg:  errRefused.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.login, tt.statusCode, []byte(tt.body), tt.cause)

			assert.Equal(t, tt.wantKind, got.Kind)
			assert.True(t, IsKind(got, tt.wantKind))
			if tt.wantErr != nil {
				assert.ErrorIs(t, got, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
			if tt.cause == nil {
				assert.Equal(t, tt.statusCode, got.StatusCode)
				assert.Equal(t, tt.body, got.Body)
			}
		})
	}
}

func TestErrorMatchesOnlyItsKind(t *testing.T) {
	err := fmt.Errorf("create customer: %w", &Error{Kind: KindDuplicateEntry, Message: "Duplicate Entry on X"})

	assert.ErrorIs(t, err, ErrDuplicateEntry)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, "create customer: Duplicate Entry on X", err.Error())
	assert.False(t, IsKind(errors.New("plain"), KindTransport))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "duplicate_entry", KindDuplicateEntry.String())
	assert.Equal(t, "transport", Kind(99).String())
}
