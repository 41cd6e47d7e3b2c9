package mongodb

import (
	// Go Internal Packages
	"testing"
	"time"

	// Local Packages
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareForInsertDefaultsStatusAndDocState(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	p := &models.B2CPayment{Name: "B2C-0001", CommandID: models.SalaryPayment}
	require.NoError(t, prepareForInsert(p, now))

	assert.Equal(t, models.StatusNotInitiated, p.Status)
	assert.Equal(t, models.DocDraft, p.DocState)
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)
}

func TestPrepareForInsertKeepsSuppliedStatus(t *testing.T) {
	p := &models.B2CPayment{
		Name:     "B2C-0001",
		Status:   models.StatusTimedOut,
		DocState: models.DocCommitted,
	}
	require.NoError(t, prepareForInsert(p, time.Now().UTC()))

	assert.Equal(t, models.StatusTimedOut, p.Status)
	assert.Equal(t, models.DocCommitted, p.DocState)
}

func TestPrepareForInsertRejectsMissingName(t *testing.T) {
	err := prepareForInsert(&models.B2CPayment{}, time.Now().UTC())
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Invalid))
}
