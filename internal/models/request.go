package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RequestType names the kind of a UserRequest and selects its Details variant
type RequestType string

const (
	RequestJoinChit     RequestType = "Join Chit"
	RequestNewLoan      RequestType = "New Loan"
	RequestNewDeposit   RequestType = "New Deposit"
	RequestForex        RequestType = "Forex"
	RequestRegistration RequestType = "Registration"
)

// Request statuses
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestCompleted = "Completed"
)

// RequestDetails is implemented by every request payload variant
type RequestDetails interface {
	RequestType() RequestType
}

type JoinChitDetails struct {
	BatchID string `json:"batchId"`
}

type NewLoanDetails struct {
	Amount  int64  `json:"amount,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

type NewDepositDetails struct {
	Amount int64 `json:"amount,omitempty"`
}

type ForexDetails struct {
	Direction    string          `json:"type,omitempty"`
	FromCurrency string          `json:"fromCurrency,omitempty"`
	ToCurrency   string          `json:"toCurrency,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
}

type RegistrationDetails struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (JoinChitDetails) RequestType() RequestType     { return RequestJoinChit }
func (NewLoanDetails) RequestType() RequestType      { return RequestNewLoan }
func (NewDepositDetails) RequestType() RequestType   { return RequestNewDeposit }
func (ForexDetails) RequestType() RequestType        { return RequestForex }
func (RegistrationDetails) RequestType() RequestType { return RequestRegistration }

// UserRequest is an item of the admin approval queue
type UserRequest struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId,omitempty"`
	UserName     string         `json:"userName"`
	Type         RequestType    `json:"type"`
	Details      RequestDetails `json:"-"`
	Status       string         `json:"status"`
	Date         string         `json:"date"`
	AdminComment string         `json:"adminComment,omitempty"`
}

type userRequestAlias UserRequest

type userRequestWire struct {
	userRequestAlias
	Details json.RawMessage `json:"details,omitempty"`
}

// MarshalJSON writes Details under "details" and derives Type from it
func (r UserRequest) MarshalJSON() ([]byte, error) {
	w := userRequestWire{userRequestAlias: userRequestAlias(r)}
	if r.Details != nil {
		w.Type = r.Details.RequestType()
		raw, err := json.Marshal(r.Details)
		if err != nil {
			return nil, err
		}
		w.Details = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes "details" into the variant selected by "type"
func (r *UserRequest) UnmarshalJSON(data []byte) error {
	var w userRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	details, err := DecodeRequestDetails(w.Type, w.Details)
	if err != nil {
		return err
	}
	*r = UserRequest(w.userRequestAlias)
	r.Details = details
	return nil
}

// DecodeRequestDetails parses a raw payload into the typed variant for t.
// An empty payload yields the zero value of the variant.
func DecodeRequestDetails(t RequestType, raw json.RawMessage) (RequestDetails, error) {
	var (
		details RequestDetails
		err     error
	)
	switch t {
	case RequestJoinChit:
		details, err = decodeAs[JoinChitDetails](raw)
	case RequestNewLoan:
		details, err = decodeAs[NewLoanDetails](raw)
	case RequestNewDeposit:
		details, err = decodeAs[NewDepositDetails](raw)
	case RequestForex:
		details, err = decodeAs[ForexDetails](raw)
	case RequestRegistration:
		details, err = decodeAs[RegistrationDetails](raw)
	default:
		return nil, fmt.Errorf("unknown request type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s details: %w", t, err)
	}
	return details, nil
}

func decodeAs[T RequestDetails](raw json.RawMessage) (RequestDetails, error) {
	var d T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
	}
	return d, nil
}
