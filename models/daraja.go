package models

// B2CRequest is the outbound payment-request payload. Field names are the
// gateway's, case-sensitive; "Occassion" is misspelt on the wire and must
// stay that way.
type B2CRequest struct {
	OriginatorConversationID string `json:"OriginatorConversationID"`
	InitiatorName            string `json:"InitiatorName"`
	SecurityCredential       string `json:"SecurityCredential"`
	CommandID                string `json:"CommandID"`
	Amount                   string `json:"Amount"`
	PartyA                   string `json:"PartyA"`
	PartyB                   string `json:"PartyB"`
	Remarks                  string `json:"Remarks"`
	QueueTimeOutURL          string `json:"QueueTimeOutURL"`
	ResultURL                string `json:"ResultURL"`
	Occassion                string `json:"Occassion"`
}

// B2CAck is the synchronous acknowledgment to a payment request. It only
// says whether the request was accepted for processing; the disbursement
// outcome arrives later through the result callback.
type B2CAck struct {
	ConversationID           string `json:"ConversationID"`
	OriginatorConversationID string `json:"OriginatorConversationID"`
	ResponseCode             string `json:"ResponseCode"`
	ResponseDescription      string `json:"ResponseDescription"`

	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// AuthResponse is the reply of the OAuth client-credentials endpoint.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type ResultParameter struct {
	Key   string `json:"Key"`
	Value any    `json:"Value"`
}

type ResultParameters struct {
	ResultParameter []ResultParameter `json:"ResultParameter"`
}

// Result is the asynchronous gateway callback body. ResultCode zero means
// the disbursement went through; anything else is a failure.
type Result struct {
	ResultType               int              `json:"ResultType"`
	ResultCode               int              `json:"ResultCode"`
	ResultDesc               string           `json:"ResultDesc"`
	OriginatorConversationID string           `json:"OriginatorConversationID"`
	ConversationID           string           `json:"ConversationID"`
	TransactionID            string           `json:"TransactionID"`
	ResultParameters         ResultParameters `json:"ResultParameters"`
}

// ResultCallback is the envelope the gateway posts to the result URL.
type ResultCallback struct {
	Result Result `json:"Result"`
}

// TimeoutCallback is the queue-timeout notification: the gateway echoes the
// request it could not process in time, identified by its conversation id.
type TimeoutCallback struct {
	OriginatorConversationID string `json:"OriginatorConversationID"`
	CommandID                string `json:"CommandID"`
	PartyB                   string `json:"PartyB"`
}
