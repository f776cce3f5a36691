package service

import "github.com/shopspring/decimal"

// LineSplit is the money breakdown of one order line. The split is exact:
// SellerAmount + Commission == Total always holds because the seller gets
// whatever remains after the rounded commission.
type LineSplit struct {
	Total        int64
	Commission   int64
	SellerAmount int64
}

// SplitLine computes the commission split for one line. The commission is
// computed per line (not on the order total) and rounded half away from
// zero to the minor unit; the order-level commission is the sum of the
// line commissions.
func SplitLine(quantity int, unitPrice int64, rate decimal.Decimal) LineSplit {
	total := int64(quantity) * unitPrice
	commission := decimal.NewFromInt(total).Mul(rate).Round(0).IntPart()
	return LineSplit{
		Total:        total,
		Commission:   commission,
		SellerAmount: total - commission,
	}
}
