package domain

// Money is an amount in integer minor units (kopecks). All arithmetic on
// currency stays in integers so totals never drift the way float math does.
type Money int64

const minorUnitsPerUnit = 100

// PointsRedemptionRate: 10 bonus points buy one whole currency unit.
const PointsRedemptionRate = 10

// AccrualPercent of the final (discounted) order total is returned as points.
const AccrualPercent = 5

// RedemptionDiscount converts redeemed points into a discount amount.
func RedemptionDiscount(points int) Money {
	return Money(points) * minorUnitsPerUnit / PointsRedemptionRate
}

// AccruedPoints is floor(totalUnits * 5%) computed without leaving integers:
// total/100 whole units, times 5, divided by 100, floored.
func AccruedPoints(total Money) int {
	return int(total * AccrualPercent / (minorUnitsPerUnit * 100))
}
