package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studentportal/internal/models"
	"studentportal/internal/pkg/httpclient"
)

// Fixed gateway protocol values.
const (
	apiVersion = "2.1.0"
	commandPay = "pay"
	currency   = "VND"

	// timeLayout is the fixed-width yyyyMMddHHmmss wire format for
	// vnp_CreateDate / vnp_ExpireDate / vnp_PayDate.
	timeLayout = "20060102150405"

	// urlValidity is how long a redirect URL stays payable.
	urlValidity = 15 * time.Minute
)

// Config holds the merchant credentials, injected at construction. The hash
// secret must never be logged.
type Config struct {
	TmnCode    string
	HashSecret string
	BaseURL    string
	ReturnURL  string
	APIURL     string
}

// AttemptStore persists advisory payment-attempt records. Both methods are
// best effort from the client's point of view.
type AttemptStore interface {
	Create(ctx context.Context, attempt *models.PaymentAttempt) error
	MarkPaid(ctx context.Context, txnRef string) error
}

// PaymentRequest describes one redirect-URL request. It lives only for the
// duration of the call and is never persisted as-is.
type PaymentRequest struct {
	FeeID       uint
	Amount      int64 // VND
	Description string
	IPAddress   string
	BankCode    string // optional
	Locale      string // defaults to "vn"
}

// NotificationResult is the internal outcome of one inbound notification.
// The HTTP layer decides its external representation.
type NotificationResult struct {
	Outcome      Outcome
	Apply        ApplyResult
	Notification *Notification
}

// Client is the gateway facade: BuildPaymentURL and HandleNotification are
// the only entry points the rest of the portal consumes.
type Client struct {
	cfg      Config
	fees     FeeStore
	attempts AttemptStore
	settler  *Settler
	http     *httpclient.Client
	logger   *zap.Logger
	now      func() time.Time
}

func NewClient(cfg Config, fees FeeStore, attempts AttemptStore, logger *zap.Logger) *Client {
	return &Client{
		cfg:      cfg,
		fees:     fees,
		attempts: attempts,
		settler:  NewSettler(fees, logger),
		http:     httpclient.New().WithTimeout(30 * time.Second),
		logger:   logger,
		now:      time.Now,
	}
}

// HashSecret hands the signing secret to in-process verification of browser
// redirects. It must never reach logs or responses.
func (c *Client) HashSecret() string {
	return c.cfg.HashSecret
}

// BuildPaymentURL validates the request against the fee's outstanding
// balance and returns a signed redirect URL. Validation errors perform no
// side effects.
func (c *Client) BuildPaymentURL(ctx context.Context, req PaymentRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	if req.Description == "" {
		return "", fmt.Errorf("%w: description", ErrMissingField)
	}
	if req.IPAddress == "" {
		return "", fmt.Errorf("%w: ip address", ErrMissingField)
	}

	fee, err := c.fees.FindByID(ctx, req.FeeID)
	if err != nil {
		return "", err
	}
	if req.Amount > fee.Outstanding() {
		return "", ErrOverpaymentRejected
	}

	createdAt := c.now()
	// The fee ID prefix correlates the notification back to the ledger; the
	// nonce keeps every attempt's reference unique at the gateway.
	txnRef := fmt.Sprintf("%d-%s", fee.ID, uuid.NewString()[:8])

	locale := req.Locale
	if locale == "" {
		locale = "vn"
	}

	p := Params{
		"vnp_Version":    apiVersion,
		"vnp_Command":    commandPay,
		"vnp_TmnCode":    c.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(req.Amount*100, 10),
		"vnp_CurrCode":   currency,
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  req.Description,
		"vnp_OrderType":  "other",
		"vnp_Locale":     locale,
		"vnp_IpAddr":     req.IPAddress,
		"vnp_ReturnUrl":  c.cfg.ReturnURL,
		"vnp_CreateDate": createdAt.Format(timeLayout),
		"vnp_ExpireDate": createdAt.Add(urlValidity).Format(timeLayout),
		"vnp_BankCode":   req.BankCode,
	}

	signed, err := SignedURL(c.cfg.BaseURL, p, c.cfg.HashSecret)
	if err != nil {
		return "", err
	}

	if c.attempts != nil {
		attempt := &models.PaymentAttempt{
			TxnRef:       txnRef,
			TuitionFeeID: fee.ID,
			Amount:       req.Amount,
			IPAddress:    req.IPAddress,
			Status:       models.AttemptPending,
			CreatedAt:    createdAt,
			ExpireAt:     createdAt.Add(urlValidity),
		}
		if err := c.attempts.Create(ctx, attempt); err != nil {
			c.logger.Warn("failed to record payment attempt",
				zap.String("txn_ref", txnRef), zap.Error(err))
		}
	}

	return signed, nil
}

// HandleNotification authenticates an inbound notification and, when it
// reports success, applies it to the ledger. Every outcome maps to a
// caller-visible result; hash values never leave this package.
func (c *Client) HandleNotification(ctx context.Context, values url.Values) (*NotificationResult, error) {
	outcome, n := Verify(values, c.cfg.HashSecret)
	switch outcome {
	case OutcomeForged:
		c.logger.Warn("forged payment notification",
			zap.String("txn_ref", values.Get("vnp_TxnRef")),
			zap.String("pay_date", values.Get("vnp_PayDate")),
		)
		return &NotificationResult{Outcome: OutcomeForged}, ErrForged
	case OutcomeMalformed:
		c.logger.Warn("malformed payment notification",
			zap.String("txn_ref", values.Get("vnp_TxnRef")),
		)
		return &NotificationResult{Outcome: OutcomeMalformed}, ErrMalformed
	}

	status := n.TransactionStatus
	if n.ResponseCode != StatusSuccess {
		status = n.ResponseCode
	}

	applyResult, err := c.settler.Apply(ctx, n.FeeID, n.Amount, status)
	if err != nil {
		return &NotificationResult{Outcome: OutcomeAuthentic, Notification: n}, err
	}

	if applyResult == ResultApplied && c.attempts != nil {
		if err := c.attempts.MarkPaid(ctx, n.TxnRef); err != nil {
			c.logger.Warn("failed to mark payment attempt paid",
				zap.String("txn_ref", n.TxnRef), zap.Error(err))
		}
	}

	return &NotificationResult{
		Outcome:      OutcomeAuthentic,
		Apply:        applyResult,
		Notification: n,
	}, nil
}
