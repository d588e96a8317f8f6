package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedemptionDiscount(t *testing.T) {
	// 10 points buy one whole currency unit (100 minor units)
	assert.Equal(t, Money(0), RedemptionDiscount(0))
	assert.Equal(t, Money(100), RedemptionDiscount(10))
	assert.Equal(t, Money(500), RedemptionDiscount(50))
	assert.Equal(t, Money(10), RedemptionDiscount(1))
}

func TestAccruedPoints(t *testing.T) {
	cases := []struct {
		total  Money
		points int
	}{
		{0, 0},
		{20000, 10},  // 200.00 -> 10 points
		{19500, 9},   // 195.00 -> 9 points, floored
		{19999, 9},   // fractional points never round up
		{1999, 0},    // below 20.00 accrues nothing
		{2000, 1},    // exactly 20.00 accrues one point
		{100000, 50}, // 1000.00 -> 50 points
	}
	for _, tc := range cases {
		assert.Equal(t, tc.points, AccruedPoints(tc.total), "total %d", tc.total)
	}
}
