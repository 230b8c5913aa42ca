// Package mathutil holds small arithmetic helpers independent of the
// bookkeeping core.
package mathutil

// SumRange sums every integer between from and to inclusive. The bounds may
// be given in either order.
func SumRange(from int, to int) int {
	if from > to {
		from, to = to, from
	}
	total := 0
	for value := from; value <= to; value++ {
		total += value
	}
	return total
}
