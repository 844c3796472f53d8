package payment

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedValues builds a notification query string with a valid signature,
// then lets the caller corrupt it.
func signedValues(t *testing.T, overrides map[string]string) url.Values {
	t.Helper()
	p := Params{
		"vnp_Amount":            "500000000",
		"vnp_BankCode":          "NCB",
		"vnp_PayDate":           "20250115103000",
		"vnp_ResponseCode":      "00",
		"vnp_TmnCode":           "DEMO",
		"vnp_TransactionNo":     "14226112",
		"vnp_TransactionStatus": "00",
		"vnp_TxnRef":            "7-abc12345",
	}
	for k, v := range overrides {
		p[k] = v
	}
	_, hash := Sign(p, testSecret)

	values := url.Values{}
	for k, v := range p {
		if v != "" {
			values.Set(k, v)
		}
	}
	values.Set("vnp_SecureHash", hash)
	return values
}

func TestVerifyAuthentic(t *testing.T) {
	outcome, n := Verify(signedValues(t, nil), testSecret)
	require.Equal(t, OutcomeAuthentic, outcome)
	assert.Equal(t, "7-abc12345", n.TxnRef)
	assert.Equal(t, uint(7), n.FeeID)
	assert.Equal(t, int64(5000000), n.Amount)
	assert.Equal(t, "NCB", n.BankCode)
	assert.Equal(t, "14226112", n.TransactionNo)
	assert.True(t, n.Success())
}

func TestVerifyAcceptsUppercaseHash(t *testing.T) {
	values := signedValues(t, nil)
	values.Set("vnp_SecureHash", strings.ToUpper(values.Get("vnp_SecureHash")))
	outcome, _ := Verify(values, testSecret)
	assert.Equal(t, OutcomeAuthentic, outcome)
}

func TestVerifyIgnoresSecureHashType(t *testing.T) {
	values := signedValues(t, nil)
	values.Set("vnp_SecureHashType", "HMACSHA512")
	outcome, _ := Verify(values, testSecret)
	assert.Equal(t, OutcomeAuthentic, outcome)
}

func TestVerifyTamperedAmountIsForged(t *testing.T) {
	values := signedValues(t, nil)
	values.Set("vnp_Amount", "100")
	outcome, n := Verify(values, testSecret)
	assert.Equal(t, OutcomeForged, outcome)
	assert.Nil(t, n)
}

func TestVerifyTamperedTxnRefIsForged(t *testing.T) {
	values := signedValues(t, nil)
	values.Set("vnp_TxnRef", "8-abc12345")
	outcome, _ := Verify(values, testSecret)
	assert.Equal(t, OutcomeForged, outcome)
}

func TestVerifyFlippedHashCharacterIsForged(t *testing.T) {
	values := signedValues(t, nil)
	hash := values.Get("vnp_SecureHash")

	// Flipping any single hex digit of the received hash must break
	// authentication.
	for _, pos := range []int{0, 64, len(hash) - 1} {
		flipped := []byte(hash)
		if flipped[pos] == 'a' {
			flipped[pos] = 'b'
		} else {
			flipped[pos] = 'a'
		}
		values.Set("vnp_SecureHash", string(flipped))

		outcome, n := Verify(values, testSecret)
		assert.Equal(t, OutcomeForged, outcome, "flip at %d", pos)
		assert.Nil(t, n)
	}
}

func TestVerifyWrongSecretIsForged(t *testing.T) {
	outcome, _ := Verify(signedValues(t, nil), "some-other-secret")
	assert.Equal(t, OutcomeForged, outcome)
}

func TestVerifyMissingHashIsMalformed(t *testing.T) {
	values := signedValues(t, nil)
	values.Del("vnp_SecureHash")
	outcome, n := Verify(values, testSecret)
	assert.Equal(t, OutcomeMalformed, outcome)
	assert.Nil(t, n)
}

func TestVerifyMissingRequiredFieldsIsMalformed(t *testing.T) {
	for _, field := range []string{"vnp_TxnRef", "vnp_ResponseCode", "vnp_TransactionStatus"} {
		values := signedValues(t, map[string]string{field: ""})
		outcome, _ := Verify(values, testSecret)
		assert.Equal(t, OutcomeMalformed, outcome, "missing %s", field)
	}
}

func TestVerifyBadAmountIsMalformed(t *testing.T) {
	for _, amount := range []string{"", "abc", "0", "-500"} {
		values := signedValues(t, map[string]string{"vnp_Amount": amount})
		outcome, _ := Verify(values, testSecret)
		assert.Equal(t, OutcomeMalformed, outcome, "amount %q", amount)
	}
}

func TestVerifyUnparsableTxnRefIsMalformed(t *testing.T) {
	values := signedValues(t, map[string]string{"vnp_TxnRef": "not-a-fee-ref"})
	outcome, _ := Verify(values, testSecret)
	assert.Equal(t, OutcomeMalformed, outcome)
}

func TestVerifyFailedTransactionStillAuthentic(t *testing.T) {
	values := signedValues(t, map[string]string{
		"vnp_ResponseCode":      "24",
		"vnp_TransactionStatus": "02",
	})
	outcome, n := Verify(values, testSecret)
	require.Equal(t, OutcomeAuthentic, outcome)
	assert.False(t, n.Success())
}
