// Package batch assembles disbursement line items from upstream business
// records and keeps the payment header fields mutually consistent.
package batch

import (
	// Go Internal Packages
	"context"
	"fmt"
	"sync"
	"time"

	// Local Packages
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"
	phone "mpesa-b2c/phone"

	// External Packages
	"go.uber.org/zap"
)

// ChangedField names the payment field whose edit triggers reconciliation.
type ChangedField string

const (
	ChangedCommandID ChangedField = "commandid"
	ChangedPartyType ChangedField = "party_type"
)

// PaymentsRepository is the slice of the document store the builder writes
// payments through.
type PaymentsRepository interface {
	Update(ctx context.Context, p *models.B2CPayment) error
}

type Builder struct {
	logger   *zap.Logger
	sources  SourceRepository
	payments PaymentsRepository
}

func NewBuilder(logger *zap.Logger, sources SourceRepository, payments PaymentsRepository) *Builder {
	return &Builder{logger: logger, sources: sources, payments: payments}
}

// Rebuild replaces the payment's items with line items derived from the
// source records created within (start, end]. Contact resolution runs
// concurrently per record, but the items slice is written once, in source
// order, after every resolution has finished. A no-data window leaves the
// items empty and reports the condition; it is not a failure.
func (b *Builder) Rebuild(ctx context.Context, p *models.B2CPayment, doctype models.SourceDocType, start, end time.Time) error {
	if !doctype.Valid() {
		return errors.InvalidParamsErr(fmt.Errorf("unsupported source doctype %q", doctype))
	}

	p.Items = nil
	p.SourceDocType = doctype
	p.StartDate = start
	p.EndDate = end

	records, err := b.sources.ListByWindow(ctx, doctype, start, end)
	if err != nil {
		if errors.IsKind(err, errors.NotFound) {
			if saveErr := b.payments.Update(ctx, p); saveErr != nil {
				return saveErr
			}
			b.logger.Info("no source records matched the date window",
				zap.String("payment", p.Name), zap.String("doctype", string(doctype)))
			return err
		}
		return err
	}

	strategy := resolverFor(doctype)
	items := make([]models.PaymentItem, len(records))

	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec models.SourceRecord) {
			defer wg.Done()

			item := models.PaymentItem{
				ReferenceDocType: doctype,
				Record:           rec.Name,
				RecordAmount:     strategy.extractAmount(rec),
			}

			c, ok := strategy.resolveContact(ctx, b.sources, rec)
			item.ReceiverName = c.name
			if ok {
				item.PartyB = phone.Sanitize(c.phone)
			} else {
				b.logger.Debug("contact resolution failed, line kept without phone",
					zap.String("payment", p.Name), zap.String("record", rec.Name))
			}

			items[i] = item
		}(i, rec)
	}
	wg.Wait()

	p.Items = items
	if err = b.payments.Update(ctx, p); err != nil {
		return err
	}

	b.logger.Info("rebuilt payment batch",
		zap.String("payment", p.Name),
		zap.String("doctype", string(doctype)),
		zap.Int("items", len(items)))
	return nil
}

// SetPartyFromSelection resolves the display name and phone number of the
// selected beneficiary and writes them onto the payment. The fields are
// cleared first so a failed resolution never leaves stale data behind.
func (b *Builder) SetPartyFromSelection(ctx context.Context, p *models.B2CPayment, party string) error {
	if party == "" {
		return errors.EmptyParamErr("party")
	}

	p.Party = party
	p.PartyName = ""
	p.PartyB = ""

	name, rawPhone, err := b.resolvePartyContact(ctx, p.PartyType, party)
	if err != nil {
		if saveErr := b.payments.Update(ctx, p); saveErr != nil {
			return saveErr
		}
		return err
	}

	p.PartyName = name
	p.PartyB = phone.Sanitize(rawPhone)
	return b.payments.Update(ctx, p)
}

func (b *Builder) resolvePartyContact(ctx context.Context, partyType models.PartyType, party string) (string, string, error) {
	switch partyType {
	case models.PartyEmployee:
		employee, err := b.sources.GetEmployee(ctx, party)
		if err != nil {
			return "", "", err
		}
		name := employee.EmployeeName
		if name == "" {
			name = employee.Name
		}
		return name, employee.CellNumber, nil

	case models.PartySupplier:
		supplier, err := b.sources.GetSupplier(ctx, party)
		if err != nil {
			return "", "", err
		}
		name := supplier.SupplierName
		if name == "" {
			name = supplier.Name
		}

		entry, err := b.sources.FindContactByName(ctx, name)
		if err != nil {
			return "", "", err
		}
		contactPhone := entry.Phone
		if contactPhone == "" {
			contactPhone = entry.MobileNo
		}
		return name, contactPhone, nil

	default:
		return "", "", errors.InvalidParamsErr(fmt.Errorf("party type %q has no contact resolution", partyType))
	}
}

// ReconcileCommandAndPartyType enforces the SalaryPayment<->Employee and
// BusinessPayment<->Supplier pairing after either field was edited. The
// dependent fields that are no longer valid are reset rather than left in
// an inconsistent combination.
func (b *Builder) ReconcileCommandAndPartyType(ctx context.Context, p *models.B2CPayment, changed ChangedField) error {
	switch changed {
	case ChangedCommandID:
		pt, ok := models.PartyTypeFor(p.CommandID)
		if !ok {
			p.CommandID = ""
			p.PartyType = ""
		} else if p.PartyType != pt {
			p.PartyType = pt
		} else {
			return nil
		}

	case ChangedPartyType:
		cmd, ok := models.CommandFor(p.PartyType)
		if !ok {
			p.PartyType = ""
			p.CommandID = ""
		} else if p.CommandID != cmd {
			p.CommandID = cmd
		} else {
			return nil
		}

	default:
		return errors.InvalidParamsErr(fmt.Errorf("unknown changed field %q", changed))
	}

	// The old beneficiary belongs to the previous party type.
	p.Party = ""
	p.PartyName = ""
	p.PartyB = ""

	if p.SourceDocType != "" && !contains(models.SourceTypesFor(p.PartyType), p.SourceDocType) {
		p.SourceDocType = ""
		p.Items = nil
	}

	return b.payments.Update(ctx, p)
}

// SetGatewayAccount derives the paid-from ledger account from the active
// company and the gateway setting name and writes it onto the payment.
func (b *Builder) SetGatewayAccount(ctx context.Context, p *models.B2CPayment, settingName string) error {
	company, err := b.sources.GetDefaultCompany(ctx)
	if err != nil {
		return err
	}

	pattern := fmt.Sprintf("Mpesa-%s - %s", settingName, company.Abbr)
	account, err := b.sources.FindAccountByPattern(ctx, pattern)
	if err != nil {
		return err
	}

	p.AccountPaidFrom = account.Name
	return b.payments.Update(ctx, p)
}

func contains(types []models.SourceDocType, t models.SourceDocType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
