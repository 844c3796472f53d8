package payment

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studentportal/internal/models"
)

type fakeAttemptStore struct {
	mu       sync.Mutex
	attempts []*models.PaymentAttempt
	paid     []string
}

func (s *fakeAttemptStore) Create(_ context.Context, attempt *models.PaymentAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *fakeAttemptStore) MarkPaid(_ context.Context, txnRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paid = append(s.paid, txnRef)
	return nil
}

func testClient(t *testing.T, fees FeeStore) (*Client, *fakeAttemptStore) {
	t.Helper()
	attempts := &fakeAttemptStore{}
	c := NewClient(Config{
		TmnCode:    "DEMO",
		HashSecret: testSecret,
		BaseURL:    "https://sandbox.example/vpcpay.html",
		ReturnURL:  "https://portal.example/payment/vnpay/return",
	}, fees, attempts, zap.NewNop())
	c.now = func() time.Time {
		return time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
	}
	return c, attempts
}

func TestBuildPaymentURLFullBalance(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	c, attempts := testClient(t, store)

	signed, err := c.BuildPaymentURL(context.Background(), PaymentRequest{
		FeeID:       7,
		Amount:      5000000,
		Description: "Thanh toan hoc phi HK1 2024-2025 - MSSV: SV001",
		IPAddress:   "203.0.113.7",
	})
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "500000000", q.Get("vnp_Amount"), "amount is x100 on the wire")
	assert.Equal(t, "DEMO", q.Get("vnp_TmnCode"))
	assert.Equal(t, "2.1.0", q.Get("vnp_Version"))
	assert.Equal(t, "pay", q.Get("vnp_Command"))
	assert.Equal(t, "VND", q.Get("vnp_CurrCode"))
	assert.Equal(t, "vn", q.Get("vnp_Locale"))
	assert.Equal(t, "20250115103000", q.Get("vnp_CreateDate"))
	assert.Equal(t, "20250115104500", q.Get("vnp_ExpireDate"), "expiry is 15 minutes out")
	assert.True(t, strings.HasPrefix(q.Get("vnp_TxnRef"), "7-"))

	// The URL the student is redirected to must verify against the secret.
	outcome, _ := Verify(q, testSecret)
	assert.NotEqual(t, OutcomeForged, outcome)

	require.Len(t, attempts.attempts, 1)
	assert.Equal(t, q.Get("vnp_TxnRef"), attempts.attempts[0].TxnRef)
	assert.Equal(t, models.AttemptPending, attempts.attempts[0].Status)
	assert.Equal(t, int64(5000000), attempts.attempts[0].Amount)
}

func TestBuildPaymentURLRejectsNonPositiveAmount(t *testing.T) {
	c, _ := testClient(t, newFakeFeeStore(unpaidFee(7, 5000000)))
	for _, amount := range []int64{0, -1} {
		_, err := c.BuildPaymentURL(context.Background(), PaymentRequest{
			FeeID: 7, Amount: amount, Description: "x", IPAddress: "203.0.113.7",
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}
}

func TestBuildPaymentURLRejectsMissingFields(t *testing.T) {
	c, _ := testClient(t, newFakeFeeStore(unpaidFee(7, 5000000)))
	ctx := context.Background()

	_, err := c.BuildPaymentURL(ctx, PaymentRequest{FeeID: 7, Amount: 100, IPAddress: "203.0.113.7"})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = c.BuildPaymentURL(ctx, PaymentRequest{FeeID: 7, Amount: 100, Description: "x"})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestBuildPaymentURLRejectsOverpayment(t *testing.T) {
	fee := unpaidFee(7, 5000000)
	fee.AmountPaid = 4000000
	c, attempts := testClient(t, newFakeFeeStore(fee))

	_, err := c.BuildPaymentURL(context.Background(), PaymentRequest{
		FeeID: 7, Amount: 1000001, Description: "x", IPAddress: "203.0.113.7",
	})
	assert.ErrorIs(t, err, ErrOverpaymentRejected)
	assert.Empty(t, attempts.attempts, "rejected requests leave no attempt behind")

	// Exactly the outstanding remainder is fine.
	_, err = c.BuildPaymentURL(context.Background(), PaymentRequest{
		FeeID: 7, Amount: 1000000, Description: "x", IPAddress: "203.0.113.7",
	})
	assert.NoError(t, err)
}

func TestBuildPaymentURLUnknownFee(t *testing.T) {
	c, _ := testClient(t, newFakeFeeStore())
	_, err := c.BuildPaymentURL(context.Background(), PaymentRequest{
		FeeID: 99, Amount: 100, Description: "x", IPAddress: "203.0.113.7",
	})
	assert.ErrorIs(t, err, ErrFeeNotFound)
}

func TestBuildPaymentURLUniqueTxnRefs(t *testing.T) {
	c, _ := testClient(t, newFakeFeeStore(unpaidFee(7, 5000000)))
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		signed, err := c.BuildPaymentURL(context.Background(), PaymentRequest{
			FeeID: 7, Amount: 100, Description: "x", IPAddress: "203.0.113.7",
		})
		require.NoError(t, err)
		u, _ := url.Parse(signed)
		ref := u.Query().Get("vnp_TxnRef")
		assert.False(t, seen[ref], "txn ref %s repeated", ref)
		seen[ref] = true
	}
}

func TestHandleNotificationSettlesAndMarksAttempt(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	c, attempts := testClient(t, store)

	result, err := c.HandleNotification(context.Background(), signedValues(t, nil))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthentic, result.Outcome)
	assert.Equal(t, ResultApplied, result.Apply)
	assert.Equal(t, int64(5000000), store.fees[7].AmountPaid)
	assert.Equal(t, []string{"7-abc12345"}, attempts.paid)
}

func TestHandleNotificationDuplicate(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	c, attempts := testClient(t, store)
	ctx := context.Background()

	_, err := c.HandleNotification(ctx, signedValues(t, nil))
	require.NoError(t, err)

	result, err := c.HandleNotification(ctx, signedValues(t, nil))
	require.NoError(t, err)
	assert.Equal(t, ResultAlreadySettled, result.Apply)
	assert.Len(t, attempts.paid, 1, "duplicates do not re-mark the attempt")
}

func TestHandleNotificationForged(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	c, _ := testClient(t, store)

	values := signedValues(t, nil)
	values.Set("vnp_Amount", "100") // breaks the signature

	result, err := c.HandleNotification(context.Background(), values)
	assert.ErrorIs(t, err, ErrForged)
	assert.Equal(t, OutcomeForged, result.Outcome)
	assert.Zero(t, store.fees[7].AmountPaid, "forged notifications never reach the ledger")
}

func TestHandleNotificationMalformed(t *testing.T) {
	c, _ := testClient(t, newFakeFeeStore())
	values := signedValues(t, nil)
	values.Del("vnp_SecureHash")

	result, err := c.HandleNotification(context.Background(), values)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, OutcomeMalformed, result.Outcome)
}

func TestHandleNotificationFailedTransaction(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	c, attempts := testClient(t, store)

	values := signedValues(t, map[string]string{
		"vnp_ResponseCode":      "24",
		"vnp_TransactionStatus": "02",
	})
	result, err := c.HandleNotification(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, ResultStatusMismatch, result.Apply)
	assert.Zero(t, store.fees[7].AmountPaid)
	assert.Empty(t, attempts.paid)
}
