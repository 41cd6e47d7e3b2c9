// Package payments drives a disbursement through its status lifecycle, from
// Not Initiated through gateway submission to the terminal states.
package payments

import (
	// Go Internal Packages
	"context"
	"fmt"
	"sync"

	// Local Packages
	daraja "mpesa-b2c/daraja"
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"
	phone "mpesa-b2c/phone"
	utils "mpesa-b2c/utils"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// retryableStatuses are the statuses a payment may be submitted from. A
// timed-out payment is explicitly allowed another attempt.
var retryableStatuses = []models.PaymentStatus{models.StatusNotInitiated, models.StatusTimedOut}

// PaymentsRepository is the slice of the document store the state machine
// needs. Status transitions and the conversation-id assignment are
// conditional single writes on the repository side.
type PaymentsRepository interface {
	Get(ctx context.Context, name string) (*models.B2CPayment, error)
	Commit(ctx context.Context, name string) error
	SetConversationID(ctx context.Context, name, conversationID string) (string, error)
	UpdateStatus(ctx context.Context, name string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error)
	SetError(ctx context.Context, name, description string) error
}

// Gateway submits payment requests; the daraja client implements it.
type Gateway interface {
	BuildRequest(p *models.B2CPayment) models.B2CRequest
	Submit(ctx context.Context, req models.B2CRequest) (*daraja.Submission, error)
}

type Service struct {
	logger    *zap.Logger
	payments  PaymentsRepository
	gateway   Gateway
	minAmount decimal.Decimal

	// one mutex per payment name serializes Initiate against double-submits
	locks sync.Map
}

func NewService(logger *zap.Logger, payments PaymentsRepository, gateway Gateway, minAmount float64) *Service {
	return &Service{
		logger:    logger,
		payments:  payments,
		gateway:   gateway,
		minAmount: decimal.NewFromFloat(minAmount),
	}
}

func (s *Service) mutexFor(name string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Validate checks the rules that gate committing a payment: a present
// receiver number must be a valid mobile number, the amount must meet the
// minimum, and command id and party type must agree. All violated rules are
// reported together.
func (s *Service) Validate(p *models.B2CPayment) error {
	ve := errors.ValidationErrs()

	if p.PartyB != "" && !phone.Validate(p.PartyB) {
		ve.Add("partyb", fmt.Sprintf("%q is not a valid receiver mobile number", p.PartyB))
	}
	if decimal.NewFromFloat(p.Amount).LessThan(s.minAmount) {
		ve.Add("amount", fmt.Sprintf("must be at least %s", s.minAmount.String()))
	}
	if pt, ok := models.PartyTypeFor(p.CommandID); ok && p.PartyType != "" && p.PartyType != pt {
		ve.Add("party_type", fmt.Sprintf("party type %q requires command id %q", p.PartyType, mustCommand(p.PartyType)))
	}

	if !ve.Empty() {
		return errors.ValidationFailedErr(ve.Err())
	}
	return nil
}

func mustCommand(pt models.PartyType) models.CommandID {
	cmd, _ := models.CommandFor(pt)
	return cmd
}

// Commit validates the payment and marks it committed in the document
// store. Validation failures block the commit and change nothing.
func (s *Service) Commit(ctx context.Context, name string) (*models.B2CPayment, error) {
	p, err := s.payments.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err = s.Validate(p); err != nil {
		return nil, err
	}
	if err = s.payments.Commit(ctx, name); err != nil {
		return nil, err
	}
	p.DocState = models.DocCommitted
	return p, nil
}

// CanInitiate reports whether a gateway submission is permitted: the
// payment must be committed, and its status Not Initiated or Timed-Out.
func (s *Service) CanInitiate(p *models.B2CPayment) bool {
	if p.DocState != models.DocCommitted {
		return false
	}
	for _, status := range retryableStatuses {
		if p.Status == status {
			return true
		}
	}
	return false
}

// Initiate submits the payment to the gateway and records the outcome.
// Calls are serialized per payment name, and the Initiated transition is a
// conditional store write, so a double-click cannot submit twice. Only a
// confirmed acceptance moves the status; authentication failures and
// unrecognised acknowledgments leave it untouched.
func (s *Service) Initiate(ctx context.Context, name string) (*models.B2CPayment, error) {
	mu := s.mutexFor(name)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.payments.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	if !s.CanInitiate(p) {
		if p.DocState != models.DocCommitted {
			return nil, errors.DraftPaymentErr(name)
		}
		return nil, errors.InvalidStateErr(name, string(p.Status))
	}

	if p.PartyB == "" {
		return nil, errors.EmptyParamErr("partyb")
	}
	if err = s.Validate(p); err != nil {
		return nil, err
	}

	// Assigned once, never regenerated: the repository keeps an existing id.
	conversationID, err := s.payments.SetConversationID(ctx, name, utils.NewOriginatorConversationID())
	if err != nil {
		return nil, err
	}
	p.OriginatorConversationID = conversationID

	sub, err := s.gateway.Submit(ctx, s.gateway.BuildRequest(p))
	if err != nil {
		return nil, errors.E(errors.Internal, "could not submit payment request", err)
	}

	switch sub.Outcome {
	case daraja.OutcomeAuthFailed:
		s.logger.Error("gateway rejected payment request for missing credentials",
			zap.String("payment", name))
		return nil, errors.AuthenticationErr(nil)

	case daraja.OutcomeAccepted:
		moved, err := s.payments.UpdateStatus(ctx, name, retryableStatuses, models.StatusInitiated)
		if err != nil {
			return nil, err
		}
		if !moved {
			// Another writer got there first; the request was accepted but
			// the record already reflects a newer state.
			return nil, errors.InvalidStateErr(name, string(p.Status))
		}
		p.Status = models.StatusInitiated
		s.logger.Info("payment initiated",
			zap.String("payment", name),
			zap.String("originator_conversation_id", conversationID))
		return p, nil

	default:
		if err := s.payments.SetError(ctx, name, sub.Body); err != nil {
			s.logger.Warn("failed to record gateway reply", zap.Error(err))
		}
		return nil, errors.UnknownResponseErr(sub.Body)
	}
}
