package lib

import (
	"math/bits"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with thousands separators, e.g. 12500 -> "12,500".
func FormatAmount(amount uint64) string {
	return amountPrinter.Sprintf("%d", amount)
}

// MulAmount multiplies a unit price by a quantity, reporting overflow.
func MulAmount(price uint64, quantity int) (uint64, bool) {
	if quantity < 0 {
		return 0, false
	}
	hi, lo := bits.Mul64(price, uint64(quantity))
	return lo, hi == 0
}

// AddAmount adds two amounts, reporting overflow.
func AddAmount(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}
