package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutstanding(t *testing.T) {
	fee := TuitionFee{TotalDue: 5000000, AmountPaid: 2000000}
	assert.Equal(t, int64(3000000), fee.Outstanding())
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name   string
		fee    TuitionFee
		expect string
	}{
		{"unpaid", TuitionFee{TotalDue: 5000000}, TuitionUnpaid},
		{"partial", TuitionFee{TotalDue: 5000000, AmountPaid: 1}, TuitionPartial},
		{"paid exactly", TuitionFee{TotalDue: 5000000, AmountPaid: 5000000}, TuitionPaid},
		{"over", TuitionFee{TotalDue: 5000000, AmountPaid: 6000000}, TuitionPaid},
		{"zero due", TuitionFee{}, TuitionUnpaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.fee.DeriveStatus())
		})
	}
}
