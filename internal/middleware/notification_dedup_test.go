package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryDeduperSeen(t *testing.T) {
	d := &memoryDeduper{seen: make(map[string]time.Time), ttl: time.Minute}
	ctx := context.Background()

	assert.False(t, d.Seen(ctx, "7-abc:20250115103000"))
	assert.True(t, d.Seen(ctx, "7-abc:20250115103000"))
	assert.False(t, d.Seen(ctx, "7-abc:20250115103500"), "a new pay date is a new delivery")
}

func TestMemoryDeduperExpires(t *testing.T) {
	d := &memoryDeduper{seen: make(map[string]time.Time), ttl: 10 * time.Millisecond}
	ctx := context.Background()

	assert.False(t, d.Seen(ctx, "k"))
	time.Sleep(20 * time.Millisecond)
	assert.False(t, d.Seen(ctx, "k"), "expired entries are forgotten")
}

func TestDedupNotificationsShortCircuitsRepeats(t *testing.T) {
	d := &memoryDeduper{seen: make(map[string]time.Time), ttl: time.Minute}
	mw := DedupNotifications(d, zap.NewNop())

	calls := 0
	next := func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	run := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
		return rec
	}

	run("/ipn?vnp_TxnRef=7-abc&vnp_PayDate=20250115103000")
	assert.Equal(t, 1, calls)

	rec := run("/ipn?vnp_TxnRef=7-abc&vnp_PayDate=20250115103000")
	assert.Equal(t, 1, calls, "duplicate never reaches the handler")

	var ack map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, "02", ack["RspCode"])
}

func TestDedupNotificationsForgedHashCannotPoisonGenuineKey(t *testing.T) {
	d := &memoryDeduper{seen: make(map[string]time.Time), ttl: time.Minute}
	mw := DedupNotifications(d, zap.NewNop())

	calls := 0
	next := func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	run := func(target string) {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
	}

	// An attacker replays the ref and pay date with a bogus signature first.
	run("/ipn?vnp_TxnRef=7-abc&vnp_PayDate=20250115103000&vnp_SecureHash=deadbeef")
	assert.Equal(t, 1, calls)

	// The real delivery carries the genuine signature and must still reach
	// the handler.
	run("/ipn?vnp_TxnRef=7-abc&vnp_PayDate=20250115103000&vnp_SecureHash=cafef00d")
	assert.Equal(t, 2, calls)

	// A genuine redelivery repeats the same signature and is collapsed,
	// regardless of hex case.
	run("/ipn?vnp_TxnRef=7-abc&vnp_PayDate=20250115103000&vnp_SecureHash=CAFEF00D")
	assert.Equal(t, 2, calls)
}

func TestDedupNotificationsPassesRequestsWithoutTxnRef(t *testing.T) {
	d := &memoryDeduper{seen: make(map[string]time.Time), ttl: time.Minute}
	mw := DedupNotifications(d, zap.NewNop())

	calls := 0
	next := func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ipn", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(next)(e.NewContext(req, rec)))
	}
	assert.Equal(t, 2, calls)
}
