package errors

import "fmt"

func InvalidParamsErr(err error) error {
	return E(Invalid, "invalid params", err)
}

func ValidationFailedErr(err error) error {
	return E(Invalid, "validation failed", err)
}

func InvalidBodyErr(err error) error {
	return E(Invalid, "invalid request body", err)
}

func EmptyParamErr(field string) error {
	ve := ValidationErrs()
	ve.Add(field, "cannot be empty")
	return E(Invalid, "validation failed", ve.Err())
}

// NoDataErr reports a candidate query that matched nothing. Not a defect:
// callers surface it to the operator and leave the batch empty.
func NoDataErr(doctype string) error {
	return E(NotFound, fmt.Sprintf("no %s records fetched for the date filters specified", doctype), nil)
}

// InvalidStateErr reports an action attempted while the payment status or
// commit state forbids it. No state is changed.
func InvalidStateErr(name, status string) error {
	return E(Conflict, fmt.Sprintf("payment %s cannot be initiated while in status %q", name, status), nil)
}

func DraftPaymentErr(name string) error {
	return E(Conflict, fmt.Sprintf("payment %s must be committed before initiation", name), nil)
}

// AuthenticationErr reports a gateway rejection due to missing or expired
// credential material. The payment was never sent, so status is untouched.
func AuthenticationErr(err error) error {
	return E(Unauthorized, "gateway rejected the request: missing authentication credentials, verify the configured certificate and consumer secret", err)
}

// UnknownResponseErr surfaces an unrecognised gateway acknowledgment verbatim
// for operator triage. Fails safe: no status transition, explicit retry needed.
func UnknownResponseErr(body string) error {
	return E(Unknown, fmt.Sprintf("unrecognised gateway acknowledgment: %s", body), nil)
}

// MismatchErr reports a result callback whose values contradict the payment
// record it references.
func MismatchErr(message string) error {
	return E(Conflict, message, nil)
}

// MissingPaymentErr reports a callback referencing a payment that does not exist.
func MissingPaymentErr(conversationID string) error {
	return E(NotFound, fmt.Sprintf("no payment found for originator conversation id %s", conversationID), nil)
}
