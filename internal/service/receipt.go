package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/util"
)

const receiptWidth = 32

// RenderReceipt lays out a sale as a fixed-width text receipt.
func RenderReceipt(p StoreProfile, tx *models.Transaction) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"

	center(&b, p.Name)
	if p.Address != "" {
		center(&b, p.Address)
	}
	if p.Phone != "" {
		center(&b, p.Phone)
	}
	b.WriteString(rule)
	fmt.Fprintf(&b, "No. %d\n", tx.ID)
	fmt.Fprintf(&b, "%s\n", tx.Timestamp.In(time.Local).Format("02/01/2006 15:04"))
	b.WriteString(rule)

	for _, it := range tx.Items {
		b.WriteString(it.Name + "\n")
		line(&b, fmt.Sprintf("  %d x %s", it.Quantity, util.FormatIDR(it.UnitPrice)), util.FormatIDR(it.Subtotal))
	}

	b.WriteString(rule)
	line(&b, "Total", util.FormatIDR(tx.Total))
	line(&b, "Tunai", util.FormatIDR(tx.Tendered))
	line(&b, "Kembali", util.FormatIDR(tx.Change))
	b.WriteString(rule)
	center(&b, "Terima kasih")
	return b.String()
}

func center(b *strings.Builder, s string) {
	if pad := (receiptWidth - len([]rune(s))) / 2; pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s + "\n")
}

func line(b *strings.Builder, left, right string) {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
}
