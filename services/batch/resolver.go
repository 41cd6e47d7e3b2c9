package batch

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	models "mpesa-b2c/models"
)

// SourceRepository is the slice of the document store the batch builder
// reads from.
type SourceRepository interface {
	ListByWindow(ctx context.Context, doctype models.SourceDocType, start, end time.Time) ([]models.SourceRecord, error)
	GetEmployee(ctx context.Context, name string) (*models.Employee, error)
	GetSupplier(ctx context.Context, name string) (*models.Supplier, error)
	FindContactByName(ctx context.Context, name string) (*models.Contact, error)
	GetDefaultCompany(ctx context.Context) (*models.Company, error)
	FindAccountByPattern(ctx context.Context, pattern string) (*models.Account, error)
}

type contact struct {
	name  string
	phone string
}

// resolver is the per-source-type strategy for pulling a beneficiary
// contact and a line amount off an upstream record. The set of resolvers is
// closed over models.SourceDocType.
type resolver interface {
	// resolveContact returns false when no contact could be resolved; the
	// line then carries an absent phone number and validation catches it
	// before initiation. A lookup failure never aborts the batch.
	resolveContact(ctx context.Context, sources SourceRepository, rec models.SourceRecord) (contact, bool)
	// extractAmount returns the line amount, zero when neither candidate
	// field is present on the record.
	extractAmount(rec models.SourceRecord) float64
}

func resolverFor(doctype models.SourceDocType) resolver {
	if doctype.PayrollLike() {
		return payrollResolver{primaryRounded: doctype == models.SalarySlip}
	}
	if doctype == models.PurchaseInvoice {
		return invoiceResolver{}
	}
	// Generic entries (Payment Entry): the phone is either already on the
	// record or stays absent.
	return passthroughResolver{}
}

// payrollResolver covers the types whose beneficiary is the linked
// Employee. Salary slips carry the rounded total as the primary amount
// field; claims and advances carry the sanctioned amount. The other field
// is the fallback either way.
type payrollResolver struct {
	primaryRounded bool
}

func (r payrollResolver) resolveContact(ctx context.Context, sources SourceRepository, rec models.SourceRecord) (contact, bool) {
	if rec.Employee == "" {
		return contact{}, false
	}

	name := rec.EmployeeName
	if name == "" {
		name = rec.Employee
	}

	employee, err := sources.GetEmployee(ctx, rec.Employee)
	if err != nil || employee.CellNumber == "" {
		return contact{name: name}, false
	}
	return contact{name: name, phone: employee.CellNumber}, true
}

func (r payrollResolver) extractAmount(rec models.SourceRecord) float64 {
	primary, fallback := rec.BaseRoundedTotal, rec.TotalSanctionedAmount
	if !r.primaryRounded {
		primary, fallback = rec.TotalSanctionedAmount, rec.BaseRoundedTotal
	}
	if primary != 0 {
		return primary
	}
	return fallback
}

// invoiceResolver fuzzy-matches a Contact by supplier name; phone is
// preferred over the mobile number when both are present.
type invoiceResolver struct{}

func (invoiceResolver) resolveContact(ctx context.Context, sources SourceRepository, rec models.SourceRecord) (contact, bool) {
	if rec.Supplier == "" {
		return contact{}, false
	}

	entry, err := sources.FindContactByName(ctx, rec.Supplier)
	if err != nil {
		return contact{name: rec.Supplier}, false
	}

	phone := entry.Phone
	if phone == "" {
		phone = entry.MobileNo
	}
	if phone == "" {
		return contact{name: rec.Supplier}, false
	}
	return contact{name: rec.Supplier, phone: phone}, true
}

func (invoiceResolver) extractAmount(rec models.SourceRecord) float64 {
	if rec.BaseRoundedTotal != 0 {
		return rec.BaseRoundedTotal
	}
	return rec.TotalSanctionedAmount
}

// passthroughResolver performs no directory lookup.
type passthroughResolver struct{}

func (passthroughResolver) resolveContact(_ context.Context, _ SourceRepository, rec models.SourceRecord) (contact, bool) {
	name := rec.Supplier
	if name == "" {
		name = rec.EmployeeName
	}
	if name == "" {
		name = rec.Employee
	}
	return contact{name: name, phone: rec.PartyB}, rec.PartyB != ""
}

func (passthroughResolver) extractAmount(rec models.SourceRecord) float64 {
	if rec.BaseRoundedTotal != 0 {
		return rec.BaseRoundedTotal
	}
	return rec.TotalSanctionedAmount
}
