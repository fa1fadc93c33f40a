package models

// Quote holds the totals shown at the payment step
type Quote struct {
	Subtotal    Amount `json:"subtotal"`
	Tax         Amount `json:"tax"`
	DeliveryFee Amount `json:"delivery_fee"`
	GrandTotal  Amount `json:"grand_total"`
}

// NewQuote derives tax (rounded half up) and the grand total from a subtotal.
// taxBasisPoints of 500 is 5%.
func NewQuote(subtotal Amount, taxBasisPoints int64, deliveryFee Amount) Quote {
	// split so subtotal*taxBasisPoints never overflows for large carts
	whole, rem := int64(subtotal)/10000, int64(subtotal)%10000
	tax := Amount(whole*taxBasisPoints + (rem*taxBasisPoints+5000)/10000)
	return Quote{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		GrandTotal:  subtotal + tax + deliveryFee,
	}
}
