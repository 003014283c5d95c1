package util

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatIDR renders a rupiah amount with Indonesian digit grouping, e.g. Rp20.000.
func FormatIDR(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return idr.Sprintf("-Rp%d", -rounded)
	}
	return idr.Sprintf("Rp%d", rounded)
}
