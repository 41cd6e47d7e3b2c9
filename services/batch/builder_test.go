package batch

import (
	// Go Internal Packages
	"context"
	"testing"
	"time"

	// Local Packages
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSourceRepo struct {
	records   []models.SourceRecord
	employees map[string]*models.Employee
	suppliers map[string]*models.Supplier
	contacts  map[string]*models.Contact
	company   *models.Company
	accounts  map[string]*models.Account
}

func (f *fakeSourceRepo) ListByWindow(_ context.Context, doctype models.SourceDocType, _, _ time.Time) ([]models.SourceRecord, error) {
	if len(f.records) == 0 {
		return nil, errors.NoDataErr(string(doctype))
	}
	return f.records, nil
}

func (f *fakeSourceRepo) GetEmployee(_ context.Context, name string) (*models.Employee, error) {
	if e, ok := f.employees[name]; ok {
		return e, nil
	}
	return nil, errors.E(errors.NotFound, "employee does not exist", nil)
}

func (f *fakeSourceRepo) GetSupplier(_ context.Context, name string) (*models.Supplier, error) {
	if s, ok := f.suppliers[name]; ok {
		return s, nil
	}
	return nil, errors.E(errors.NotFound, "supplier does not exist", nil)
}

func (f *fakeSourceRepo) FindContactByName(_ context.Context, name string) (*models.Contact, error) {
	if c, ok := f.contacts[name]; ok {
		return c, nil
	}
	return nil, errors.E(errors.NotFound, "no contact matches", nil)
}

func (f *fakeSourceRepo) GetDefaultCompany(_ context.Context) (*models.Company, error) {
	if f.company == nil {
		return nil, errors.E(errors.NotFound, "no company is configured", nil)
	}
	return f.company, nil
}

func (f *fakeSourceRepo) FindAccountByPattern(_ context.Context, pattern string) (*models.Account, error) {
	if a, ok := f.accounts[pattern]; ok {
		return a, nil
	}
	return nil, errors.E(errors.NotFound, "no account matches", nil)
}

type fakePaymentsRepo struct {
	updated *models.B2CPayment
	calls   int
}

func (f *fakePaymentsRepo) Update(_ context.Context, p *models.B2CPayment) error {
	clone := *p
	f.updated = &clone
	f.calls++
	return nil
}

func newTestPayment() *models.B2CPayment {
	return &models.B2CPayment{
		Name:      "B2C-0001",
		CommandID: models.SalaryPayment,
		PartyType: models.PartyEmployee,
		Status:    models.StatusNotInitiated,
		DocState:  models.DocDraft,
	}
}

func TestRebuildKeepsSourceOrderAndToleratesFailedResolutions(t *testing.T) {
	sources := &fakeSourceRepo{
		records: []models.SourceRecord{
			{Name: "SS-001", Employee: "EMP-001", EmployeeName: "John Doe", BaseRoundedTotal: 25000},
			{Name: "SS-002", Employee: "EMP-MISSING", EmployeeName: "Jane Roe", BaseRoundedTotal: 18000},
			{Name: "SS-003", Employee: "EMP-003", EmployeeName: "Mary Major", BaseRoundedTotal: 30500},
		},
		employees: map[string]*models.Employee{
			"EMP-001": {Name: "EMP-001", EmployeeName: "John Doe", CellNumber: "0712345678"},
			"EMP-003": {Name: "EMP-003", EmployeeName: "Mary Major", CellNumber: "+254 110 123 456"},
		},
	}
	store := &fakePaymentsRepo{}
	builder := NewBuilder(zap.NewNop(), sources, store)

	p := newTestPayment()
	err := builder.Rebuild(context.Background(), p, models.SalarySlip,
		time.Now().Add(-48*time.Hour), time.Now())
	require.NoError(t, err)

	require.Len(t, p.Items, 3)
	assert.Equal(t, "SS-001", p.Items[0].Record)
	assert.Equal(t, "SS-002", p.Items[1].Record)
	assert.Equal(t, "SS-003", p.Items[2].Record)

	assert.Equal(t, "254712345678", p.Items[0].PartyB)
	assert.Empty(t, p.Items[1].PartyB) // resolution failed, line kept
	assert.Equal(t, "254110123456", p.Items[2].PartyB)

	assert.Equal(t, 25000.0, p.Items[0].RecordAmount)
	assert.Equal(t, "Jane Roe", p.Items[1].ReceiverName)
	require.NotNil(t, store.updated)
	assert.Len(t, store.updated.Items, 3)
}

func TestRebuildReplacesExistingItems(t *testing.T) {
	sources := &fakeSourceRepo{
		records: []models.SourceRecord{
			{Name: "EC-001", Employee: "EMP-001", TotalSanctionedAmount: 1200},
		},
		employees: map[string]*models.Employee{
			"EMP-001": {Name: "EMP-001", CellNumber: "0712345678"},
		},
	}
	builder := NewBuilder(zap.NewNop(), sources, &fakePaymentsRepo{})

	p := newTestPayment()
	p.Items = []models.PaymentItem{{Record: "stale-1"}, {Record: "stale-2"}}

	err := builder.Rebuild(context.Background(), p, models.ExpenseClaim,
		time.Now().Add(-24*time.Hour), time.Now())
	require.NoError(t, err)

	require.Len(t, p.Items, 1)
	assert.Equal(t, "EC-001", p.Items[0].Record)
	assert.Equal(t, 1200.0, p.Items[0].RecordAmount)
}

func TestRebuildNoDataLeavesItemsEmpty(t *testing.T) {
	store := &fakePaymentsRepo{}
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, store)

	p := newTestPayment()
	p.Items = []models.PaymentItem{{Record: "stale"}}

	err := builder.Rebuild(context.Background(), p, models.SalarySlip,
		time.Now().Add(-24*time.Hour), time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.NotFound))

	assert.Empty(t, p.Items)
	require.NotNil(t, store.updated)
	assert.Empty(t, store.updated.Items)
}

func TestRebuildRejectsUnknownDoctype(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, &fakePaymentsRepo{})

	err := builder.Rebuild(context.Background(), newTestPayment(), "Sales Order",
		time.Now().Add(-24*time.Hour), time.Now())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Invalid))
}

func TestSetPartyFromSelectionEmployee(t *testing.T) {
	sources := &fakeSourceRepo{
		employees: map[string]*models.Employee{
			"EMP-001": {Name: "EMP-001", EmployeeName: "John Doe", CellNumber: "0712 345 678"},
		},
	}
	builder := NewBuilder(zap.NewNop(), sources, &fakePaymentsRepo{})

	p := newTestPayment()
	err := builder.SetPartyFromSelection(context.Background(), p, "EMP-001")
	require.NoError(t, err)

	assert.Equal(t, "EMP-001", p.Party)
	assert.Equal(t, "John Doe", p.PartyName)
	assert.Equal(t, "254712345678", p.PartyB)
}

func TestSetPartyFromSelectionSupplierPrefersPhone(t *testing.T) {
	sources := &fakeSourceRepo{
		suppliers: map[string]*models.Supplier{
			"SUP-001": {Name: "SUP-001", SupplierName: "Acme Ltd"},
		},
		contacts: map[string]*models.Contact{
			"Acme Ltd": {Name: "Acme Ltd", Phone: "0712345678", MobileNo: "0798765432"},
		},
	}
	builder := NewBuilder(zap.NewNop(), sources, &fakePaymentsRepo{})

	p := newTestPayment()
	p.CommandID = models.BusinessPayment
	p.PartyType = models.PartySupplier

	err := builder.SetPartyFromSelection(context.Background(), p, "SUP-001")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", p.PartyName)
	assert.Equal(t, "254712345678", p.PartyB)
}

func TestSetPartyFromSelectionFailureClearsStaleFields(t *testing.T) {
	store := &fakePaymentsRepo{}
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, store)

	p := newTestPayment()
	p.Party = "EMP-OLD"
	p.PartyName = "Old Name"
	p.PartyB = "254712345678"

	err := builder.SetPartyFromSelection(context.Background(), p, "EMP-MISSING")
	require.Error(t, err)

	assert.Empty(t, p.PartyName)
	assert.Empty(t, p.PartyB)
	require.NotNil(t, store.updated)
	assert.Empty(t, store.updated.PartyB)
}

func TestReconcileCommandChangeResetsParty(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, &fakePaymentsRepo{})

	p := newTestPayment()
	p.Party = "EMP-001"
	p.PartyName = "John Doe"
	p.PartyB = "254712345678"
	p.SourceDocType = models.SalarySlip
	p.Items = []models.PaymentItem{{Record: "SS-001"}}

	p.CommandID = models.BusinessPayment
	err := builder.ReconcileCommandAndPartyType(context.Background(), p, ChangedCommandID)
	require.NoError(t, err)

	assert.Equal(t, models.PartySupplier, p.PartyType)
	assert.Empty(t, p.Party)
	assert.Empty(t, p.PartyName)
	assert.Empty(t, p.PartyB)

	// Salary slips are not selectable for suppliers.
	assert.Empty(t, p.SourceDocType)
	assert.Empty(t, p.Items)
}

func TestReconcilePartyTypeChangeResetsCommand(t *testing.T) {
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, &fakePaymentsRepo{})

	p := newTestPayment()
	p.PartyType = models.PartySupplier
	err := builder.ReconcileCommandAndPartyType(context.Background(), p, ChangedPartyType)
	require.NoError(t, err)

	assert.Equal(t, models.BusinessPayment, p.CommandID)
	assert.Empty(t, p.Party)
}

func TestReconcileConsistentPairIsNoOp(t *testing.T) {
	store := &fakePaymentsRepo{}
	builder := NewBuilder(zap.NewNop(), &fakeSourceRepo{}, store)

	p := newTestPayment()
	p.Party = "EMP-001"

	err := builder.ReconcileCommandAndPartyType(context.Background(), p, ChangedCommandID)
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", p.Party)
	assert.Zero(t, store.calls)
}

func TestSetGatewayAccount(t *testing.T) {
	sources := &fakeSourceRepo{
		company: &models.Company{Name: "Navari", Abbr: "NVR"},
		accounts: map[string]*models.Account{
			"Mpesa-sandbox - NVR": {Name: "Mpesa-sandbox - NVR"},
		},
	}
	builder := NewBuilder(zap.NewNop(), sources, &fakePaymentsRepo{})

	p := newTestPayment()
	err := builder.SetGatewayAccount(context.Background(), p, "sandbox")
	require.NoError(t, err)
	assert.Equal(t, "Mpesa-sandbox - NVR", p.AccountPaidFrom)
}
