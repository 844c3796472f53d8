package payment

import (
	"crypto/hmac"
	"net/url"
	"strconv"
	"strings"
)

// StatusSuccess is the gateway code for a completed transaction, used by
// both vnp_ResponseCode and vnp_TransactionStatus.
const StatusSuccess = "00"

// Outcome classifies an inbound notification.
type Outcome int

const (
	OutcomeMalformed Outcome = iota
	OutcomeForged
	OutcomeAuthentic
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthentic:
		return "authentic"
	case OutcomeForged:
		return "forged"
	default:
		return "malformed"
	}
}

// Notification is a parsed, authenticated gateway callback.
type Notification struct {
	TxnRef            string
	FeeID             uint
	Amount            int64 // VND, divided back from the x100 wire form
	BankCode          string
	PayDate           string
	TransactionNo     string
	ResponseCode      string
	TransactionStatus string
}

// Success reports whether the gateway settled the transaction.
func (n *Notification) Success() bool {
	return n.ResponseCode == StatusSuccess && n.TransactionStatus == StatusSuccess
}

// Verify authenticates an inbound notification. The received hash (and hash
// type, if echoed) is stripped, the rest re-canonicalized with the same
// encoder used for signing, and the HMAC recomputed and compared in constant
// time. No financial mutation may happen unless this returns
// OutcomeAuthentic.
func Verify(values url.Values, secret string) (Outcome, *Notification) {
	received := values.Get(secureHashParam)
	if received == "" {
		return OutcomeMalformed, nil
	}

	p := make(Params, len(values))
	for k := range values {
		if k == secureHashParam || k == secureHashTypeParam {
			continue
		}
		p[k] = values.Get(k)
	}

	_, expected := Sign(p, secret)
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return OutcomeForged, nil
	}

	n := &Notification{
		TxnRef:            values.Get("vnp_TxnRef"),
		BankCode:          values.Get("vnp_BankCode"),
		PayDate:           values.Get("vnp_PayDate"),
		TransactionNo:     values.Get("vnp_TransactionNo"),
		ResponseCode:      values.Get("vnp_ResponseCode"),
		TransactionStatus: values.Get("vnp_TransactionStatus"),
	}
	if n.TxnRef == "" || n.ResponseCode == "" || n.TransactionStatus == "" {
		return OutcomeMalformed, nil
	}

	feeID, err := feeIDFromTxnRef(n.TxnRef)
	if err != nil {
		return OutcomeMalformed, nil
	}
	n.FeeID = feeID

	rawAmount, err := strconv.ParseInt(values.Get("vnp_Amount"), 10, 64)
	if err != nil || rawAmount <= 0 {
		return OutcomeMalformed, nil
	}
	n.Amount = rawAmount / 100

	return OutcomeAuthentic, n
}

// feeIDFromTxnRef extracts the tuition-fee ID from a "<feeID>-<nonce>"
// transaction reference.
func feeIDFromTxnRef(txnRef string) (uint, error) {
	idPart, _, _ := strings.Cut(txnRef, "-")
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
