package erpnext

import "context"

// ERPNextClient defines the interface for ERPNext API operations
type ERPNextClient interface {
	// Authenticate logs in and refreshes the session cookie
	Authenticate(ctx context.Context) error

	// Execute runs a single resource operation
	Execute(ctx context.Context, op Operation) (*Envelope, error)

	// Resource returns a client bound to one document type
	Resource(name string) *ResourceClient

	CompanyAbbr(ctx context.Context, companyName string) (string, bool, error)
	CompanyDefaultPayrollPayableAccount(ctx context.Context, companyName string) (string, bool, error)
	CountryByCode(ctx context.Context, code string) (string, bool, error)
	LeadSourceName(ctx context.Context, sourceName string) (string, bool, error)
	LeadName(ctx context.Context, leadName string) (string, bool, error)
	SalesInvoicesByTitle(ctx context.Context, title string) ([]Record, error)
}

var _ ERPNextClient = (*ERPNext)(nil)
