package payment

import (
	"net/url"
	"sort"
	"strings"
)

// Gateway parameter names with special handling.
const (
	secureHashParam     = "vnp_SecureHash"
	secureHashTypeParam = "vnp_SecureHashType"
)

// Params is a set of named gateway parameters.
type Params map[string]string

// Encode returns the canonical string signatures are computed over: names in
// byte-wise ascending order, values URL-encoded exactly once (space becomes
// "+", everything else percent-escaped from UTF-8 bytes), pairs joined with
// "&". Empty values are skipped entirely, never emitted as "name=". Outbound
// signing and inbound verification must produce identical bytes here or every
// hash comparison fails.
func (p Params) Encode() string {
	keys := make([]string, 0, len(p))
	for k, v := range p {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[k]))
	}
	return b.String()
}
