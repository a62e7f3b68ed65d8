package erpnext

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// Filter is one [entity, field, operator, value] condition of a list query.
type Filter struct {
	Entity   string
	Field    string
	Operator string
	Value    any
}

// Eq returns the condition entity.field = value.
func Eq(entity, field string, value any) Filter {
	return Filter{Entity: entity, Field: field, Operator: "=", Value: value}
}

// MarshalJSON encodes the filter as the 4-element array the API expects.
// An empty operator means "=".
func (f Filter) MarshalJSON() ([]byte, error) {
	op := f.Operator
	if op == "" {
		op = "="
	}
	return json.Marshal([]any{f.Entity, f.Field, op, f.Value})
}

// ListOptions shapes a list GET. Zero values are left to the server defaults.
type ListOptions struct {
	Fields  []string
	Filters []Filter
	OrderBy string
	Start   int
	// Limit maps to limit_page_length. The server returns 20 records when it
	// is not set.
	Limit int
}

func (o ListOptions) values() (url.Values, error) {
	q := url.Values{}
	if len(o.Fields) > 0 {
		b, err := json.Marshal(o.Fields)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fields: %w", err)
		}
		q.Set("fields", string(b))
	}
	if len(o.Filters) > 0 {
		b, err := json.Marshal(o.Filters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		q.Set("filters", string(b))
	}
	if o.OrderBy != "" {
		q.Set("order_by", o.OrderBy)
	}
	if o.Start > 0 {
		q.Set("limit_start", strconv.Itoa(o.Start))
	}
	if o.Limit > 0 {
		q.Set("limit_page_length", strconv.Itoa(o.Limit))
	}
	return q, nil
}
