package notification

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/order"
)

// ReceiptRenderer formats an order into a customer-facing receipt
type ReceiptRenderer interface {
	// Render produces the receipt body for an order
	Render(o *order.Order) string
}

// TextReceiptRenderer renders plain-text receipts
type TextReceiptRenderer struct{}

// NewTextReceiptRenderer creates a new TextReceiptRenderer
func NewTextReceiptRenderer() *TextReceiptRenderer {
	return &TextReceiptRenderer{}
}

// Render produces a plain-text receipt with one line per item and the
// charge breakdown
func (r *TextReceiptRenderer) Render(o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Placed %s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))

	for i := range o.Items {
		item := &o.Items[i]
		label := item.Name
		if variant := formatVariant(item.Size, item.Color); variant != "" {
			label = fmt.Sprintf("%s (%s)", item.Name, variant)
		}
		fmt.Fprintf(&b, "  %dx %-40s %10s\n", item.Quantity, label, item.Subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\n  %-43s %10s\n", "Subtotal", o.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "  %-43s %10s\n", "Tax", o.TaxAmount.StringFixed(2))
	fmt.Fprintf(&b, "  %-43s %10s\n", "Shipping", o.ShippingFee.StringFixed(2))
	fmt.Fprintf(&b, "  %-43s %10s\n\n", "Total", o.TotalAmount.StringFixed(2))

	fmt.Fprintf(&b, "Ship to:\n%s\n", o.ShippingAddress.Format())

	return b.String()
}

func formatVariant(size, color string) string {
	switch {
	case size != "" && color != "":
		return size + ", " + color
	case size != "":
		return size
	default:
		return color
	}
}

// Ensure TextReceiptRenderer implements ReceiptRenderer
var _ ReceiptRenderer = (*TextReceiptRenderer)(nil)
