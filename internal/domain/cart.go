package domain

import "time"

type Cart struct {
	ID        int64     `json:"id"`
	MemberID  int64     `json:"memberId"`
	CreatedAt time.Time `json:"createdAt"`
}

type CartLine struct {
	ID        int64    `json:"id"`
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
	LineTotal int64    `json:"lineTotal"`
}

// CartSummary is a member's cart contents with computed totals.
type CartSummary struct {
	Lines []CartLine `json:"lineItems"`
	Total int64      `json:"cartTotal"`
}

// NewCartSummary computes each line total from the joined product price and sums them.
func NewCartSummary(lines []CartLine) CartSummary {
	out := CartSummary{Lines: make([]CartLine, 0, len(lines))}
	for _, l := range lines {
		if l.Product != nil {
			l.LineTotal = l.Product.Price * int64(l.Quantity)
		}
		out.Total += l.LineTotal
		out.Lines = append(out.Lines, l)
	}
	return out
}
