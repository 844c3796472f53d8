package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
)

// Sign computes the keyed hash over the canonical form of p and returns both
// the canonical string and the lowercase-hex HMAC-SHA512. Pure function.
func Sign(p Params, secret string) (canonical, hash string) {
	canonical = p.Encode()
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(canonical))
	return canonical, hex.EncodeToString(mac.Sum(nil))
}

// SignedURL assembles the redirect URL: base, canonical query, then the
// secure hash as the trailing parameter. The hash never covers itself.
// Balance rules live upstream in the Client, but a non-positive vnp_Amount
// is refused here regardless.
func SignedURL(baseURL string, p Params, secret string) (string, error) {
	amount, err := strconv.ParseInt(p["vnp_Amount"], 10, 64)
	if err != nil || amount <= 0 {
		return "", ErrInvalidAmount
	}

	canonical, hash := Sign(p, secret)
	return baseURL + "?" + canonical + "&" + secureHashParam + "=" + hash, nil
}
