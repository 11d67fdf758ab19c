package services

import (
	"fmt"
	"strings"
	"time"

	"cafe_pos_server/lib"
	"cafe_pos_server/structs"
	"cafe_pos_server/structs/tables"
)

const receiptWidth = 32

const (
	CopyCustomer = "customer"
	CopyCashier  = "cashier"
)

// ReceiptService renders orders as plain-text receipts for a 58mm printer.
type ReceiptService struct {
	cafeName   string
	cafeNameEn string
	currency   string
	location   *time.Location
}

func NewReceiptService(cfg *structs.Config) *ReceiptService {
	return &ReceiptService{
		cafeName:   cfg.Cafe.Name,
		cafeNameEn: cfg.Cafe.NameEn,
		currency:   cfg.Cafe.Currency,
		location:   cfg.Cafe.Location,
	}
}

// NormalizeCopy maps unknown copy types to the customer copy.
func NormalizeCopy(copyType string) string {
	if copyType == CopyCashier {
		return CopyCashier
	}
	return CopyCustomer
}

// Render builds one copy of the receipt.
func (rs *ReceiptService) Render(order *tables.Order, copyType string) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	created := order.CreatedAt
	if rs.location != nil {
		created = created.In(rs.location)
	}

	line(rs.cafeName)
	line(rs.cafeNameEn)
	line(strings.Repeat("=", receiptWidth))

	line("رقم الطلب: " + order.OrderNumber)
	line("التاريخ: " + created.Format("2006/01/02"))
	line("الوقت: " + created.Format("15:04:05"))
	if NormalizeCopy(copyType) == CopyCashier {
		line("(نسخة الكاشير)")
	} else {
		line("(نسخة الزبون)")
	}
	line(strings.Repeat("-", receiptWidth))

	line("الأصناف")
	line(strings.Repeat("-", receiptWidth))
	for _, item := range order.Lines {
		line(fmt.Sprintf("%s x%d", item.ItemName, item.Quantity))
		line("   " + rs.formatPrice(item.Subtotal))
	}
	line(strings.Repeat("-", receiptWidth))

	line("المجموع: " + rs.formatPrice(order.TotalAmount))
	line("المدفوع: " + rs.formatPrice(order.AmountPaid))
	if order.ChangeGiven > 0 {
		line("الباقي: " + rs.formatPrice(order.ChangeGiven))
	}
	if order.Notes != "" {
		line("ملاحظات: " + order.Notes)
	}
	line(strings.Repeat("=", receiptWidth))

	line("شكراً لزيارتكم")
	line("Thank you for visiting")

	return b.String()
}

// RenderForPrint renders the customer copy followed by the cashier copy.
func (rs *ReceiptService) RenderForPrint(order *tables.Order) []string {
	return []string{
		rs.Render(order, CopyCustomer),
		rs.Render(order, CopyCashier),
	}
}

func (rs *ReceiptService) formatPrice(amount uint64) string {
	if rs.currency == "" {
		return lib.FormatAmount(amount)
	}
	return lib.FormatAmount(amount) + " " + rs.currency
}
