package payments

import (
	// Go Internal Packages
	"context"
	"sync"
	"testing"

	// Local Packages
	daraja "mpesa-b2c/daraja"
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentsRepo struct {
	mu       sync.Mutex
	payments map[string]*models.B2CPayment
	errDesc  string
}

func newFakePaymentsRepo(ps ...*models.B2CPayment) *fakePaymentsRepo {
	repo := &fakePaymentsRepo{payments: map[string]*models.B2CPayment{}}
	for _, p := range ps {
		clone := *p
		repo.payments[p.Name] = &clone
	}
	return repo
}

func (f *fakePaymentsRepo) Get(_ context.Context, name string) (*models.B2CPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[name]
	if !ok {
		return nil, errors.E(errors.NotFound, "payment does not exist", nil)
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentsRepo) Commit(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[name].DocState = models.DocCommitted
	return nil
}

func (f *fakePaymentsRepo) SetConversationID(_ context.Context, name, conversationID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.payments[name]
	if p.OriginatorConversationID != "" {
		return p.OriginatorConversationID, nil
	}
	p.OriginatorConversationID = conversationID
	return conversationID, nil
}

func (f *fakePaymentsRepo) UpdateStatus(_ context.Context, name string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.payments[name]
	for _, status := range from {
		if p.Status == status {
			p.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentsRepo) SetError(_ context.Context, name, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errDesc = description
	return nil
}

type fakeGateway struct {
	mu          sync.Mutex
	submissions []models.B2CRequest
	submission  *daraja.Submission
}

func (f *fakeGateway) BuildRequest(p *models.B2CPayment) models.B2CRequest {
	return models.B2CRequest{
		OriginatorConversationID: p.OriginatorConversationID,
		CommandID:                string(p.CommandID),
		PartyB:                   p.PartyB,
	}
}

func (f *fakeGateway) Submit(_ context.Context, req models.B2CRequest) (*daraja.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, req)
	return f.submission, nil
}

func acceptedSubmission() *daraja.Submission {
	return &daraja.Submission{
		Outcome: daraja.OutcomeAccepted,
		Ack: &models.B2CAck{
			ResponseCode:        "0",
			ResponseDescription: "Accept the service request successfully.",
		},
	}
}

func readyPayment() *models.B2CPayment {
	return &models.B2CPayment{
		Name:      "B2C-0001",
		CommandID: models.SalaryPayment,
		PartyType: models.PartyEmployee,
		Party:     "EMP-001",
		PartyB:    "254712345678",
		Amount:    1500,
		DocState:  models.DocCommitted,
		Status:    models.StatusNotInitiated,
	}
}

func TestValidateReportsAllViolationsTogether(t *testing.T) {
	svc := NewService(zap.NewNop(), newFakePaymentsRepo(), &fakeGateway{}, 10)

	p := readyPayment()
	p.PartyB = "0712345678"
	p.Amount = 5
	p.PartyType = models.PartySupplier

	err := svc.Validate(p)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Invalid))
	assert.Contains(t, err.Error(), "partyb")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "party_type")
}

func TestValidateAcceptsAbsentPartyB(t *testing.T) {
	svc := NewService(zap.NewNop(), newFakePaymentsRepo(), &fakeGateway{}, 10)

	p := readyPayment()
	p.PartyB = ""
	require.NoError(t, svc.Validate(p))
}

func TestValidateBlocksAmountBelowMinimum(t *testing.T) {
	svc := NewService(zap.NewNop(), newFakePaymentsRepo(), &fakeGateway{}, 10)

	p := readyPayment()
	p.Amount = 9.99
	require.Error(t, svc.Validate(p))

	p.Amount = 10
	require.NoError(t, svc.Validate(p))
}

func TestCommitBlocksInvalidPayment(t *testing.T) {
	p := readyPayment()
	p.DocState = models.DocDraft
	p.Amount = 5
	repo := newFakePaymentsRepo(p)
	svc := NewService(zap.NewNop(), repo, &fakeGateway{}, 10)

	_, err := svc.Commit(context.Background(), p.Name)
	require.Error(t, err)

	stored, _ := repo.Get(context.Background(), p.Name)
	assert.Equal(t, models.DocDraft, stored.DocState)
}

func TestCommitMarksPaymentCommitted(t *testing.T) {
	p := readyPayment()
	p.DocState = models.DocDraft
	repo := newFakePaymentsRepo(p)
	svc := NewService(zap.NewNop(), repo, &fakeGateway{}, 10)

	committed, err := svc.Commit(context.Background(), p.Name)
	require.NoError(t, err)
	assert.Equal(t, models.DocCommitted, committed.DocState)

	stored, _ := repo.Get(context.Background(), p.Name)
	assert.Equal(t, models.DocCommitted, stored.DocState)
}

func TestCanInitiateMatrix(t *testing.T) {
	svc := NewService(zap.NewNop(), newFakePaymentsRepo(), &fakeGateway{}, 10)

	cases := []struct {
		docState models.DocState
		status   models.PaymentStatus
		want     bool
	}{
		{models.DocCommitted, models.StatusNotInitiated, true},
		{models.DocCommitted, models.StatusTimedOut, true},
		{models.DocCommitted, models.StatusPending, false},
		{models.DocCommitted, models.StatusInitiated, false},
		{models.DocCommitted, models.StatusSuccess, false},
		{models.DocCommitted, models.StatusFailed, false},
		{models.DocDraft, models.StatusNotInitiated, false},
		{models.DocDraft, models.StatusTimedOut, false},
	}
	for _, tc := range cases {
		p := readyPayment()
		p.DocState = tc.docState
		p.Status = tc.status
		assert.Equal(t, tc.want, svc.CanInitiate(p),
			"doc_state=%s status=%s", tc.docState, tc.status)
	}
}

func TestInitiateAcceptedMovesToInitiated(t *testing.T) {
	repo := newFakePaymentsRepo(readyPayment())
	gateway := &fakeGateway{submission: acceptedSubmission()}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	p, err := svc.Initiate(context.Background(), "B2C-0001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInitiated, p.Status)
	assert.NotEmpty(t, p.OriginatorConversationID)

	stored, _ := repo.Get(context.Background(), "B2C-0001")
	assert.Equal(t, models.StatusInitiated, stored.Status)
	assert.Equal(t, p.OriginatorConversationID, stored.OriginatorConversationID)

	require.Len(t, gateway.submissions, 1)
	assert.Equal(t, p.OriginatorConversationID, gateway.submissions[0].OriginatorConversationID)
}

func TestInitiateKeepsExistingConversationID(t *testing.T) {
	p := readyPayment()
	p.Status = models.StatusTimedOut
	p.OriginatorConversationID = "8f3e2a9c-1b4d-4c7e-9f0a-2d5b6e7c8d9e"
	repo := newFakePaymentsRepo(p)
	gateway := &fakeGateway{submission: acceptedSubmission()}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	out, err := svc.Initiate(context.Background(), p.Name)
	require.NoError(t, err)
	assert.Equal(t, "8f3e2a9c-1b4d-4c7e-9f0a-2d5b6e7c8d9e", out.OriginatorConversationID)

	require.Len(t, gateway.submissions, 1)
	assert.Equal(t, "8f3e2a9c-1b4d-4c7e-9f0a-2d5b6e7c8d9e",
		gateway.submissions[0].OriginatorConversationID)
}

func TestInitiateRejectsDraftPayment(t *testing.T) {
	p := readyPayment()
	p.DocState = models.DocDraft
	repo := newFakePaymentsRepo(p)
	svc := NewService(zap.NewNop(), repo, &fakeGateway{}, 10)

	_, err := svc.Initiate(context.Background(), p.Name)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Conflict))
}

func TestInitiateRejectsNonRetryableStatus(t *testing.T) {
	for _, status := range []models.PaymentStatus{
		models.StatusPending, models.StatusInitiated, models.StatusSuccess, models.StatusFailed,
	} {
		p := readyPayment()
		p.Status = status
		repo := newFakePaymentsRepo(p)
		gateway := &fakeGateway{submission: acceptedSubmission()}
		svc := NewService(zap.NewNop(), repo, gateway, 10)

		_, err := svc.Initiate(context.Background(), p.Name)
		require.Error(t, err, "status=%s", status)
		assert.True(t, errors.IsKind(err, errors.Conflict), "status=%s", status)
		assert.Empty(t, gateway.submissions, "status=%s", status)
	}
}

func TestInitiateRejectsMissingPartyB(t *testing.T) {
	p := readyPayment()
	p.PartyB = ""
	repo := newFakePaymentsRepo(p)
	gateway := &fakeGateway{submission: acceptedSubmission()}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	_, err := svc.Initiate(context.Background(), p.Name)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Invalid))
	assert.Empty(t, gateway.submissions)
}

func TestInitiateAuthFailureLeavesStatusUntouched(t *testing.T) {
	repo := newFakePaymentsRepo(readyPayment())
	gateway := &fakeGateway{submission: &daraja.Submission{Outcome: daraja.OutcomeAuthFailed}}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	_, err := svc.Initiate(context.Background(), "B2C-0001")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Unauthorized))

	stored, _ := repo.Get(context.Background(), "B2C-0001")
	assert.Equal(t, models.StatusNotInitiated, stored.Status)
}

func TestInitiateUnknownReplyRecordsBodyWithoutTransition(t *testing.T) {
	repo := newFakePaymentsRepo(readyPayment())
	gateway := &fakeGateway{submission: &daraja.Submission{
		Outcome: daraja.OutcomeUnknown,
		Body:    `{"errorCode":"500.001.1001","errorMessage":"Server busy"}`,
	}}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	_, err := svc.Initiate(context.Background(), "B2C-0001")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.Unknown))
	assert.Contains(t, err.Error(), "Server busy")

	stored, _ := repo.Get(context.Background(), "B2C-0001")
	assert.Equal(t, models.StatusNotInitiated, stored.Status)
	assert.Contains(t, repo.errDesc, "Server busy")
}

func TestInitiateConcurrentCallsSubmitOnce(t *testing.T) {
	repo := newFakePaymentsRepo(readyPayment())
	gateway := &fakeGateway{submission: acceptedSubmission()}
	svc := NewService(zap.NewNop(), repo, gateway, 10)

	var wg sync.WaitGroup
	outcomes := make([]error, 8)
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, outcomes[i] = svc.Initiate(context.Background(), "B2C-0001")
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range outcomes {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.IsKind(err, errors.Conflict))
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, gateway.submissions, 1)
}
