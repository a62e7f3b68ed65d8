package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/natserract/erpnext/pkg/erpnext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSalesOrderServer(t *testing.T, status int, body map[string]any) *erpnext.ERPNext {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/method/login" {
			json.NewEncoder(w).Encode(map[string]any{"message": "Logged In"})
			return
		}
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/resource/Sales%20Order/SO-00001", r.URL.EscapedPath())
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	client, err := erpnext.NewERPNextWithLogger(&erpnext.Config{
		Username: "Administrator",
		Password: "secret",
		BaseURL:  server.URL,
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestSubmitSalesOrder(t *testing.T) {
	client := newSalesOrderServer(t, http.StatusOK, map[string]any{
		"data": map[string]any{"name": "SO-00001", "docstatus": 1},
	})

	out, err := submitSalesOrder(client, "SO-00001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"SO-00001","docstatus":1}`, out)
}

func TestSubmitSalesOrderRejected(t *testing.T) {
	client := newSalesOrderServer(t, http.StatusExpectationFailed, map[string]any{
		"exception": "frappe.exceptions.ValidationError: Delivery Date is required",
	})

	_, err := submitSalesOrder(client, "SO-00001")
	require.Error(t, err)
	assert.Equal(t, "Validation Error: Delivery Date is required", err.Error())
	assert.Equal(t, 2, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(&erpnext.Error{Kind: erpnext.KindTransport, Message: "boom"}))
	assert.Equal(t, 2, exitCode(&erpnext.Error{Kind: erpnext.KindValidation, Message: "nope"}))
}
