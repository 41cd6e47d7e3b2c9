// Package daraja talks to the payment gateway: token acquisition and the
// B2C payment-request round trip.
package daraja

import (
	// Go Internal Packages
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	// Local Packages
	config "mpesa-b2c/config"
	models "mpesa-b2c/models"

	// External Packages
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentPath = "/mpesa/b2c/v1/paymentrequest"

// authFailureMarker is the exact substring the gateway returns when the
// credential material is missing on the server side.
const authFailureMarker = "no certificate file found in server"

// Outcome classifies the synchronous acknowledgment of a payment request.
type Outcome int

const (
	// OutcomeAccepted means the request was accepted for processing; the
	// final disbursement result arrives later through the result callback.
	OutcomeAccepted Outcome = iota
	// OutcomeAuthFailed means the gateway rejected the request for missing
	// credential material. The payment was never queued.
	OutcomeAuthFailed
	// OutcomeUnknown is any acknowledgment this client does not recognise;
	// the raw body is surfaced verbatim for operator triage.
	OutcomeUnknown
)

// Submission is the interpreted acknowledgment of one payment request.
type Submission struct {
	Outcome Outcome
	Ack     *models.B2CAck
	Body    string
}

// TokenSource supplies a bearer token for outbound requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Client struct {
	httpc  *http.Client
	cfg    config.Daraja
	tokens TokenSource
	logger *zap.Logger
}

func NewClient(cfg config.Daraja, tokens TokenSource, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	return &Client{
		httpc:  &http.Client{Timeout: timeout},
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
	}
}

// BuildRequest maps a payment onto the gateway request shape. Field names
// are fixed by the gateway, including the misspelt Occassion.
func (c *Client) BuildRequest(p *models.B2CPayment) models.B2CRequest {
	amount := decimal.NewFromFloat(p.Amount)

	return models.B2CRequest{
		OriginatorConversationID: p.OriginatorConversationID,
		InitiatorName:            c.cfg.InitiatorName,
		SecurityCredential:       c.cfg.SecurityCredential,
		CommandID:                string(p.CommandID),
		Amount:                   amount.String(),
		PartyA:                   c.cfg.BusinessShortcode,
		PartyB:                   p.PartyB,
		Remarks:                  p.Remarks,
		QueueTimeOutURL:          c.cfg.QueueTimeoutURL,
		ResultURL:                c.cfg.ResultURL,
		Occassion:                p.Occasion,
	}
}

// Submit sends the payment request and interprets the synchronous
// acknowledgment only. A transport failure returns an error with no
// Submission; every reply that arrives is classified, never guessed at.
func (c *Client) Submit(ctx context.Context, req models.B2CRequest) (*Submission, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		if strings.Contains(err.Error(), authFailureMarker) {
			return &Submission{Outcome: OutcomeAuthFailed, Body: err.Error()}, nil
		}
		return nil, fmt.Errorf("could not acquire bearer token: %w", err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal payment request: %w", err)
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+paymentPath, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("could not create payment request: %w", err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)

	rsp, err := c.httpc.Do(r)
	if err != nil {
		return nil, fmt.Errorf("could not execute payment request: %w", err)
	}
	defer func() {
		_ = rsp.Body.Close()
	}()

	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read acknowledgment body: %w", err)
	}

	sub := &Submission{Body: string(body)}
	if strings.Contains(sub.Body, authFailureMarker) {
		sub.Outcome = OutcomeAuthFailed
		return sub, nil
	}

	var ack models.B2CAck
	if err = json.Unmarshal(body, &ack); err == nil {
		sub.Ack = &ack
	}

	if rsp.StatusCode == http.StatusOK && sub.Ack != nil &&
		strings.Contains(strings.ToLower(ack.ResponseDescription), "successful") {
		sub.Outcome = OutcomeAccepted
		c.logger.Info("payment request accepted",
			zap.String("conversation_id", ack.ConversationID),
			zap.String("originator_conversation_id", req.OriginatorConversationID))
		return sub, nil
	}

	sub.Outcome = OutcomeUnknown
	c.logger.Warn("unrecognised gateway acknowledgment",
		zap.Int("status_code", rsp.StatusCode),
		zap.String("originator_conversation_id", req.OriginatorConversationID),
		zap.String("body", sub.Body))
	return sub, nil
}
