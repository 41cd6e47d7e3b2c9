package models

import (
	// Go Internal Packages
	"time"
)

type PaymentStatus string

const (
	StatusNotInitiated PaymentStatus = "Not Initiated"
	StatusPending      PaymentStatus = "Pending"
	StatusInitiated    PaymentStatus = "Initiated"
	StatusTimedOut     PaymentStatus = "Timed-Out"
	StatusSuccess      PaymentStatus = "Success"
	StatusFailed       PaymentStatus = "Failed"
)

// Terminal reports whether no further transition is legal from s.
func (s PaymentStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

type CommandID string

const (
	SalaryPayment   CommandID = "SalaryPayment"
	BusinessPayment CommandID = "BusinessPayment"
)

type PartyType string

const (
	PartyEmployee PartyType = "Employee"
	PartySupplier PartyType = "Supplier"
)

// PartyTypeFor returns the party type a command id requires.
func PartyTypeFor(cmd CommandID) (PartyType, bool) {
	switch cmd {
	case SalaryPayment:
		return PartyEmployee, true
	case BusinessPayment:
		return PartySupplier, true
	default:
		return "", false
	}
}

// CommandFor returns the command id a party type requires.
func CommandFor(pt PartyType) (CommandID, bool) {
	switch pt {
	case PartyEmployee:
		return SalaryPayment, true
	case PartySupplier:
		return BusinessPayment, true
	default:
		return "", false
	}
}

// DocState is the commit state of a payment in the document store. A payment
// is editable while a draft and may only reach the gateway once committed.
type DocState string

const (
	DocDraft     DocState = "Draft"
	DocCommitted DocState = "Committed"
)

// PaymentItem is a single batch line derived from one source document.
// PartyB and RecordAmount stay zero-valued when resolution failed; validation
// before initiation is what catches them, not the batch builder.
type PaymentItem struct {
	ReferenceDocType SourceDocType `json:"reference_doctype" bson:"reference_doctype"`
	Record           string        `json:"record" bson:"record"`
	ReceiverName     string        `json:"receiver_name" bson:"receiver_name"`
	PartyB           string        `json:"partyb" bson:"partyb,omitempty"`
	RecordAmount     float64       `json:"record_amount" bson:"record_amount,omitempty"`
}

type B2CPayment struct {
	Name                     string        `json:"name" bson:"_id"`
	CommandID                CommandID     `json:"commandid" bson:"commandid"`
	PartyType                PartyType     `json:"party_type" bson:"party_type"`
	Party                    string        `json:"party" bson:"party,omitempty"`
	PartyName                string        `json:"party_name" bson:"party_name,omitempty"`
	PartyB                   string        `json:"partyb" bson:"partyb,omitempty"`
	Amount                   float64       `json:"amount" bson:"amount"`
	Remarks                  string        `json:"remarks" bson:"remarks,omitempty"`
	Occasion                 string        `json:"occasion" bson:"occasion,omitempty"`
	OriginatorConversationID string        `json:"originator_conversation_id" bson:"originator_conversation_id,omitempty"`
	Status                   PaymentStatus `json:"status" bson:"status"`
	AccountPaidFrom          string        `json:"account_paid_from" bson:"account_paid_from,omitempty"`
	DocState                 DocState      `json:"doc_state" bson:"doc_state"`
	SourceDocType            SourceDocType `json:"source_doctype" bson:"source_doctype,omitempty"`
	StartDate                time.Time     `json:"start_date" bson:"start_date,omitempty"`
	EndDate                  time.Time     `json:"end_date" bson:"end_date,omitempty"`
	Items                    []PaymentItem `json:"items" bson:"items,omitempty"`
	ErrorDescription         string        `json:"error_description" bson:"error_description,omitempty"`
	CreatedAt                time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt                time.Time     `json:"updated_at" bson:"updated_at"`
}

// B2CTransaction is the persisted record of one successful gateway result,
// extracted from the asynchronous result callback.
type B2CTransaction struct {
	TransactionID                 string    `json:"transaction_id" bson:"_id"`
	PaymentName                   string    `json:"b2c_payment_name" bson:"b2c_payment_name"`
	OriginatorConversationID      string    `json:"originator_conversation_id" bson:"originator_conversation_id"`
	ConversationID                string    `json:"conversation_id" bson:"conversation_id"`
	TransactionAmount             float64   `json:"transaction_amount" bson:"transaction_amount"`
	TransactionReceipt            string    `json:"transaction_receipt" bson:"transaction_receipt"`
	RecipientIsRegisteredCustomer string    `json:"recipient_is_registered_customer" bson:"recipient_is_registered_customer"`
	ChargesPaidAccountFunds       float64   `json:"charges_paid_account_available_funds" bson:"charges_paid_account_available_funds"`
	ReceiverPublicName            string    `json:"receiver_public_name" bson:"receiver_public_name"`
	TransactionCompletedDatetime  string    `json:"transaction_completed_datetime" bson:"transaction_completed_datetime"`
	UtilityAccountFunds           float64   `json:"utility_account_available_funds" bson:"utility_account_available_funds"`
	WorkingAccountFunds           float64   `json:"working_account_available_funds" bson:"working_account_available_funds"`
	CreatedAt                     time.Time `json:"created_at" bson:"created_at"`
}
