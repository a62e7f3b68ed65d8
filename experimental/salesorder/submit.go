package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/natserract/erpnext/pkg/erpnext"
)

// submitSalesOrder submits the named sales order and returns it as indented
// JSON.
func submitSalesOrder(c erpnext.ERPNextClient, name string) (string, error) {
	ctx := context.Background()

	salesOrder, err := c.Resource(erpnext.SalesOrder).Update(ctx, name, erpnext.Record{
		"status":         "Submitted",
		"docstatus":      1,
		"container_type": "40 Feet",
	})
	if err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(salesOrder, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format sales order: %w", err)
	}
	return string(b), nil
}
