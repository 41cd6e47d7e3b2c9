package models

import (
	// Go Internal Packages
	"time"
)

// SourceDocType enumerates the upstream business records a disbursement
// batch can be built from. The set is closed: resolution strategies switch
// over it exhaustively.
type SourceDocType string

const (
	SalarySlip      SourceDocType = "Salary Slip"
	ExpenseClaim    SourceDocType = "Expense Claim"
	EmployeeAdvance SourceDocType = "Employee Advance"
	PurchaseInvoice SourceDocType = "Purchase Invoice"
	PaymentEntry    SourceDocType = "Payment Entry"
)

// SourceDocTypes lists every supported source document type.
var SourceDocTypes = []SourceDocType{
	SalarySlip, ExpenseClaim, EmployeeAdvance, PurchaseInvoice, PaymentEntry,
}

// Valid reports whether t is one of the supported source document types.
func (t SourceDocType) Valid() bool {
	for _, candidate := range SourceDocTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// PayrollLike reports whether the beneficiary is an employee whose contact
// lives on the Employee record.
func (t SourceDocType) PayrollLike() bool {
	return t == SalarySlip || t == ExpenseClaim || t == EmployeeAdvance
}

// Collection returns the document-store collection holding records of type t.
func (t SourceDocType) Collection() string {
	switch t {
	case SalarySlip:
		return "salary_slips"
	case ExpenseClaim:
		return "expense_claims"
	case EmployeeAdvance:
		return "employee_advances"
	case PurchaseInvoice:
		return "purchase_invoices"
	case PaymentEntry:
		return "payment_entries"
	default:
		return ""
	}
}

// SourceTypesFor returns the source document types selectable for a party type.
func SourceTypesFor(pt PartyType) []SourceDocType {
	if pt == PartyEmployee {
		return []SourceDocType{SalarySlip, ExpenseClaim, EmployeeAdvance}
	}
	return []SourceDocType{PurchaseInvoice, PaymentEntry}
}

// SourceRecord is the superset of fields the resolvers read off an upstream
// document. Amount fields are zero when absent in the stored document.
type SourceRecord struct {
	Name                  string    `json:"name" bson:"_id"`
	Employee              string    `json:"employee" bson:"employee,omitempty"`
	EmployeeName          string    `json:"employee_name" bson:"employee_name,omitempty"`
	Supplier              string    `json:"supplier" bson:"supplier,omitempty"`
	PartyB                string    `json:"partyb" bson:"partyb,omitempty"`
	BaseRoundedTotal      float64   `json:"base_rounded_total" bson:"base_rounded_total,omitempty"`
	TotalSanctionedAmount float64   `json:"total_sanctioned_amount" bson:"total_sanctioned_amount,omitempty"`
	Creation              time.Time `json:"creation" bson:"creation"`
}

// Employee carries the contact fields read for payroll-like resolutions.
type Employee struct {
	Name         string `json:"name" bson:"_id"`
	EmployeeName string `json:"employee_name" bson:"employee_name,omitempty"`
	CellNumber   string `json:"cell_number" bson:"cell_number,omitempty"`
}

// Contact is a directory entry fuzzy-matched by supplier name. Phone is
// preferred over MobileNo when both are present.
type Contact struct {
	Name     string `json:"name" bson:"_id"`
	Phone    string `json:"phone" bson:"phone,omitempty"`
	MobileNo string `json:"mobile_no" bson:"mobile_no,omitempty"`
}

// Supplier is the beneficiary entity behind BusinessPayment disbursements.
type Supplier struct {
	Name         string `json:"name" bson:"_id"`
	SupplierName string `json:"supplier_name" bson:"supplier_name,omitempty"`
}

// Account is a ledger account, used to resolve the paid-from account for a
// gateway setting.
type Account struct {
	Name string `json:"name" bson:"_id"`
}

// Company supplies the abbreviation used in ledger account names.
type Company struct {
	Name string `json:"name" bson:"_id"`
	Abbr string `json:"abbr" bson:"abbr"`
}
