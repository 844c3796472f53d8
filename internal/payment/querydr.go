package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studentportal/internal/models"
)

// QueryResult is the merchant-API view of one gateway transaction.
type QueryResult struct {
	ResponseCode      string `json:"vnp_ResponseCode"`
	Message           string `json:"vnp_Message"`
	TxnRef            string `json:"vnp_TxnRef"`
	Amount            string `json:"vnp_Amount"`
	TransactionNo     string `json:"vnp_TransactionNo"`
	TransactionStatus string `json:"vnp_TransactionStatus"`
	BankCode          string `json:"vnp_BankCode"`
	PayDate           string `json:"vnp_PayDate"`
}

// QueryTransaction asks the merchant API for the state of a transaction.
// Used to reconcile pending attempts whose notification never arrived.
func (c *Client) QueryTransaction(ctx context.Context, txnRef, transactionDate, ipAddr string) (*QueryResult, error) {
	p := Params{
		"vnp_RequestId":       uuid.NewString(),
		"vnp_Version":         apiVersion,
		"vnp_Command":         "querydr",
		"vnp_TmnCode":         c.cfg.TmnCode,
		"vnp_TxnRef":          txnRef,
		"vnp_OrderInfo":       "query transaction " + txnRef,
		"vnp_TransactionDate": transactionDate,
		"vnp_CreateDate":      c.now().Format(timeLayout),
		"vnp_IpAddr":          ipAddr,
	}
	_, hash := Sign(p, c.cfg.HashSecret)

	body := make(map[string]string, len(p)+1)
	for k, v := range p {
		body[k] = v
	}
	body[secureHashParam] = hash

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("querydr marshal: %w", err)
	}

	resp, err := c.http.Post(c.cfg.APIURL, payload)
	if err != nil {
		return nil, fmt.Errorf("querydr request failed: %w", err)
	}

	var result QueryResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("querydr parse error: %w", err)
	}
	return &result, nil
}

// Reconcile resolves an attempt whose notification never arrived: it asks
// the merchant API for the transaction's final state and settles the fee
// when the gateway reports success.
func (c *Client) Reconcile(ctx context.Context, attempt *models.PaymentAttempt) (ApplyResult, error) {
	result, err := c.QueryTransaction(ctx, attempt.TxnRef, attempt.CreatedAt.Format(timeLayout), "127.0.0.1")
	if err != nil {
		return 0, err
	}

	if result.TransactionStatus != StatusSuccess {
		return ResultStatusMismatch, nil
	}

	amount, err := strconv.ParseInt(result.Amount, 10, 64)
	if err != nil {
		amount = attempt.Amount * 100
	}

	apply, err := c.settler.Apply(ctx, attempt.TuitionFeeID, amount/100, result.TransactionStatus)
	if err != nil {
		return 0, err
	}
	if (apply == ResultApplied || apply == ResultAlreadySettled) && c.attempts != nil {
		if err := c.attempts.MarkPaid(ctx, attempt.TxnRef); err != nil {
			c.logger.Warn("failed to mark reconciled attempt paid",
				zap.String("txn_ref", attempt.TxnRef), zap.Error(err))
		}
	}
	return apply, nil
}
