package models_test

import (
	// Go Internal Packages
	"testing"

	// Local Packages
	models "mpesa-b2c/models"

	// External Packages
	"github.com/stretchr/testify/assert"
)

func TestSourceDocTypeValid(t *testing.T) {
	for _, doctype := range models.SourceDocTypes {
		assert.True(t, doctype.Valid(), string(doctype))
		assert.NotEmpty(t, doctype.Collection(), string(doctype))
	}

	assert.False(t, models.SourceDocType("Sales Order").Valid())
	assert.False(t, models.SourceDocType("").Valid())
}

func TestSourceDocTypePayrollLike(t *testing.T) {
	payroll := []models.SourceDocType{
		models.SalarySlip, models.ExpenseClaim, models.EmployeeAdvance,
	}
	for _, doctype := range payroll {
		assert.True(t, doctype.PayrollLike(), string(doctype))
	}

	assert.False(t, models.PurchaseInvoice.PayrollLike())
	assert.False(t, models.PaymentEntry.PayrollLike())
}

func TestSourceTypesForMatchesPayrollSplit(t *testing.T) {
	for _, doctype := range models.SourceTypesFor(models.PartyEmployee) {
		assert.True(t, doctype.PayrollLike(), string(doctype))
	}
	for _, doctype := range models.SourceTypesFor(models.PartySupplier) {
		assert.False(t, doctype.PayrollLike(), string(doctype))
	}
}
