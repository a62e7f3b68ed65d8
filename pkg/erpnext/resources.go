package erpnext

// Document types used by this client. Any other name is accepted as well.
const (
	Company              = "Company"
	Employee             = "Employee"
	SalaryStructure      = "Salary Structure"
	SalaryComponent      = "Salary Component"
	HolidayList          = "Holiday List"
	CustomField          = "Custom Field"
	Country              = "Country"
	Customer             = "Customer"
	CustomerGroup        = "Customer Group"
	Contact              = "Contact"
	Address              = "Address"
	TermsAndConditions   = "Terms and Conditions"
	ModeOfPayment        = "Mode of Payment"
	ModeOfPaymentAccount = "Mode of Payment Account"
	Item                 = "Item"
	ItemGroup            = "Item Group"
	ItemPrice            = "Item Price"
	PriceList            = "Price List"
	UOM                  = "UOM"
	Account              = "Account"
	CostCenter           = "Cost Center"
	Territory            = "Territory"
	LeadSource           = "Lead Source"
	Lead                 = "Lead"
	Opportunity          = "Opportunity"
	SalesOrder           = "Sales Order"
	SalesInvoice         = "Sales Invoice"
	SupplierType         = "Supplier Type"
	Supplier             = "Supplier"
	PurchaseOrder        = "Purchase Order"
	PurchaseInvoice      = "Purchase Invoice"
)

// Resource describes how operations on one document type behave.
type Resource struct {
	Name string
	// SoftCreateErrors lists the error kinds for which Create returns a nil
	// record instead of an error.
	SoftCreateErrors []Kind
}

func (r Resource) softOnCreate(err error) bool {
	for _, kind := range r.SoftCreateErrors {
		if IsKind(err, kind) {
			return true
		}
	}
	return false
}

// Creating a Sales Invoice that already exists is not an error.
var resourceTable = map[string]Resource{
	SalesInvoice: {
		Name:             SalesInvoice,
		SoftCreateErrors: []Kind{KindConflict, KindDuplicateEntry},
	},
}

// LookupResource returns the configuration of a document type, falling back
// to the defaults for names without an entry.
func LookupResource(name string) Resource {
	if r, ok := resourceTable[name]; ok {
		return r
	}
	return Resource{Name: name}
}
