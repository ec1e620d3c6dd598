package domain

import "fmt"

// ComputeTotal is the price of an offer for a group of memberCount homes.
func ComputeTotal(o *Offer, memberCount int) float64 {
	return o.BasePrice + o.PricePerHome*float64(memberCount)
}

// FormatPrice renders a price with two decimals for display.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
