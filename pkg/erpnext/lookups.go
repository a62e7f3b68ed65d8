package erpnext

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// lookupField finds the first document of resource where matchField equals
// value and returns its returnField. found is false when no document matches
// or the field is empty.
func (e *ERPNext) lookupField(ctx context.Context, resource, matchField string, value any, returnField string) (string, bool, error) {
	rec, err := e.Resource(resource).FindOne(ctx, []Filter{Eq(resource, matchField, value)}, returnField)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		e.logger.Debug("Lookup matched nothing",
			zap.String("resource", resource),
			zap.String("field", matchField))
		return "", false, nil
	}

	v, ok := rec[returnField]
	if !ok || v == nil {
		return "", false, nil
	}
	if s, ok := v.(string); ok {
		return s, s != "", nil
	}
	return fmt.Sprint(v), true, nil
}

// CompanyAbbr returns the abbreviation of the company with the given
// company_name.
func (e *ERPNext) CompanyAbbr(ctx context.Context, companyName string) (string, bool, error) {
	return e.lookupField(ctx, Company, "company_name", companyName, "abbr")
}

// CompanyDefaultPayrollPayableAccount returns the payroll payable account
// configured on the company.
func (e *ERPNext) CompanyDefaultPayrollPayableAccount(ctx context.Context, companyName string) (string, bool, error) {
	return e.lookupField(ctx, Company, "company_name", companyName, "default_payroll_payable_account")
}

// CountryByCode returns the country name for an ISO country code.
func (e *ERPNext) CountryByCode(ctx context.Context, code string) (string, bool, error) {
	return e.lookupField(ctx, Country, "code", code, "country_name")
}

// LeadSourceName returns the document name of the lead source with the given
// source_name.
func (e *ERPNext) LeadSourceName(ctx context.Context, sourceName string) (string, bool, error) {
	return e.lookupField(ctx, LeadSource, "source_name", sourceName, "name")
}

// LeadName returns the document name of the lead with the given lead_name.
func (e *ERPNext) LeadName(ctx context.Context, leadName string) (string, bool, error) {
	return e.lookupField(ctx, Lead, "lead_name", leadName, "name")
}

// SalesInvoicesByTitle returns the sales invoices with the given title.
func (e *ERPNext) SalesInvoicesByTitle(ctx context.Context, title string) ([]Record, error) {
	return e.Resource(SalesInvoice).Find(ctx, []Filter{Eq(SalesInvoice, "title", title)})
}

func (e *ERPNext) Companies(ctx context.Context) ([]Record, error) {
	return e.Resource(Company).List(ctx, ListOptions{})
}

func (e *ERPNext) Uoms(ctx context.Context) ([]Record, error) {
	return e.Resource(UOM).List(ctx, ListOptions{})
}

func (e *ERPNext) Leads(ctx context.Context) ([]Record, error) {
	return e.Resource(Lead).List(ctx, ListOptions{})
}
