// Package results applies the asynchronous gateway callbacks that move an
// initiated payment into its terminal state.
package results

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	errors "mpesa-b2c/errors"
	models "mpesa-b2c/models"

	// External Packages
	"go.uber.org/zap"
)

// Result parameter keys as written by the gateway.
const (
	keyTransactionAmount   = "TransactionAmount"
	keyTransactionReceipt  = "TransactionReceipt"
	keyRegisteredCustomer  = "B2CRecipientIsRegisteredCustomer"
	keyChargesPaidFunds    = "B2CChargesPaidAccountAvailableFunds"
	keyReceiverPublicName  = "ReceiverPartyPublicName"
	keyCompletedDatetime   = "TransactionCompletedDateTime"
	keyUtilityAccountFunds = "B2CUtilityAccountAvailableFunds"
	keyWorkingAccountFunds = "B2CWorkingAccountAvailableFunds"
)

type PaymentsRepository interface {
	GetByConversationID(ctx context.Context, conversationID string) (*models.B2CPayment, error)
	UpdateStatus(ctx context.Context, name string, from []models.PaymentStatus, to models.PaymentStatus) (bool, error)
	SetError(ctx context.Context, name, description string) error
}

type TransactionsRepository interface {
	InsertTransaction(ctx context.Context, tx models.B2CTransaction) error
}

type Processor struct {
	logger       *zap.Logger
	payments     PaymentsRepository
	transactions TransactionsRepository
}

func NewProcessor(logger *zap.Logger, payments PaymentsRepository, transactions TransactionsRepository) *Processor {
	return &Processor{logger: logger, payments: payments, transactions: transactions}
}

// ProcessResult applies one result callback. Only Initiated payments accept
// a terminal result; anything else is an information mismatch.
func (p *Processor) ProcessResult(ctx context.Context, value []byte) error {
	var cb models.ResultCallback
	if err := json.Unmarshal(value, &cb); err != nil {
		return errors.InvalidBodyErr(err)
	}
	res := cb.Result

	payment, err := p.payments.GetByConversationID(ctx, res.OriginatorConversationID)
	if err != nil {
		return err
	}

	if payment.Status != models.StatusInitiated {
		if payment.Status.Terminal() {
			// The result was already applied; this is a redelivery.
			p.logger.Warn("result for a payment already in a terminal state",
				zap.String("payment", payment.Name), zap.String("status", string(payment.Status)))
		}
		return errors.MismatchErr(fmt.Sprintf(
			"incorrect payment status %q for payment %s receiving a result", payment.Status, payment.Name))
	}

	if res.ResultCode != 0 {
		moved, err := p.payments.UpdateStatus(ctx, payment.Name,
			[]models.PaymentStatus{models.StatusInitiated}, models.StatusFailed)
		if err != nil {
			return err
		}
		if moved {
			if err = p.payments.SetError(ctx, payment.Name, res.ResultDesc); err != nil {
				p.logger.Warn("failed to record result description", zap.Error(err))
			}
		}
		p.logger.Info("payment failed at the gateway",
			zap.String("payment", payment.Name),
			zap.Int("result_code", res.ResultCode),
			zap.String("result_desc", res.ResultDesc))
		return nil
	}

	tx := ExtractTransactionValues(res.ResultParameters.ResultParameter, res.TransactionID)
	tx.PaymentName = payment.Name
	tx.OriginatorConversationID = res.OriginatorConversationID
	tx.ConversationID = res.ConversationID

	if tx.TransactionAmount != payment.Amount {
		return errors.MismatchErr(fmt.Sprintf(
			"incorrect transaction and payment amount for payment %s", payment.Name))
	}

	if err = p.transactions.InsertTransaction(ctx, tx); err != nil {
		return err
	}

	if _, err = p.payments.UpdateStatus(ctx, payment.Name,
		[]models.PaymentStatus{models.StatusInitiated}, models.StatusSuccess); err != nil {
		return err
	}

	p.logger.Info("payment disbursed successfully",
		zap.String("payment", payment.Name),
		zap.String("transaction_id", res.TransactionID))
	return nil
}

// ProcessTimeout applies one queue-timeout callback, making the payment
// eligible for retry.
func (p *Processor) ProcessTimeout(ctx context.Context, value []byte) error {
	var cb models.TimeoutCallback
	if err := json.Unmarshal(value, &cb); err != nil {
		return errors.InvalidBodyErr(err)
	}

	payment, err := p.payments.GetByConversationID(ctx, cb.OriginatorConversationID)
	if err != nil {
		return err
	}

	moved, err := p.payments.UpdateStatus(ctx, payment.Name,
		[]models.PaymentStatus{models.StatusInitiated}, models.StatusTimedOut)
	if err != nil {
		return err
	}
	if !moved {
		return errors.MismatchErr(fmt.Sprintf(
			"incorrect payment status %q for payment %s receiving a timeout", payment.Status, payment.Name))
	}

	p.logger.Warn("payment timed out in the gateway queue, retry permitted",
		zap.String("payment", payment.Name))
	return nil
}

// ExtractTransactionValues pulls the transaction fields out of the result
// parameter list. Unknown keys are ignored; missing keys leave their fields
// zero-valued.
func ExtractTransactionValues(params []models.ResultParameter, transactionID string) models.B2CTransaction {
	tx := models.B2CTransaction{TransactionID: transactionID}

	for _, param := range params {
		switch param.Key {
		case keyTransactionAmount:
			tx.TransactionAmount = asFloat(param.Value)
		case keyTransactionReceipt:
			tx.TransactionReceipt = asString(param.Value)
		case keyRegisteredCustomer:
			tx.RecipientIsRegisteredCustomer = asString(param.Value)
		case keyChargesPaidFunds:
			tx.ChargesPaidAccountFunds = asFloat(param.Value)
		case keyReceiverPublicName:
			tx.ReceiverPublicName = asString(param.Value)
		case keyCompletedDatetime:
			tx.TransactionCompletedDatetime = asString(param.Value)
		case keyUtilityAccountFunds:
			tx.UtilityAccountFunds = asFloat(param.Value)
		case keyWorkingAccountFunds:
			tx.WorkingAccountFunds = asFloat(param.Value)
		}
	}
	return tx
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func asString(v any) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	return s
}
